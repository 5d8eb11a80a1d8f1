package domain

import "time"

// UploadedDocument es la metadata de un CV subido. Se escribe una sola vez; una nueva
// subida agrega otra fila en lugar de reemplazarla.
type UploadedDocument struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FilePath    string    `json:"file_path"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	MimeType    string    `json:"mime_type"`
	ContentHash string    `json:"content_hash"`
	CreatedAt   time.Time `json:"created_at"`
}
