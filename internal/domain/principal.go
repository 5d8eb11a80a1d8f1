package domain

import "time"

// Principal es la identidad autenticada de la request, resuelta por el proveedor externo.
type Principal struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	SessionID string `json:"-"`
}

// IsZero indica si no hay principal autenticado.
func (p Principal) IsZero() bool {
	return p.ID == ""
}

// IdentityClaim es una identidad externa vinculada al principal (p.ej. "linkedin_oidc").
// Solo lectura: la escribe el proveedor de autenticacion.
type IdentityClaim struct {
	UserID    string    `json:"user_id"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}
