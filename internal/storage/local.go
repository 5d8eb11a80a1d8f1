package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// LocalStorage guarda los documentos subidos en disco, un directorio por principal.
type LocalStorage struct {
	root string
	now  func() time.Time
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("upload dir is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{root: abs, now: time.Now}, nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeName deja solo caracteres seguros para un nombre de archivo.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "document"
	}
	if len(name) > 120 {
		name = name[len(name)-120:]
	}
	return name
}

// OwnerDir devuelve el directorio de un principal: blake2b-256 en hex del id, de modo
// que ids distintos nunca comparten directorio.
func OwnerDir(ownerID string) string {
	sum := blake2b.Sum256([]byte(ownerID))
	return hex.EncodeToString(sum[:])
}

// Put escribe data bajo <root>/<OwnerDir(ownerID)>/<nanos>-<uuid>-<nombre>. Nunca sobrescribe.
func (s *LocalStorage) Put(ctx context.Context, ownerID, fileName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ownerID = strings.TrimSpace(ownerID)
	if strings.Trim(ownerID, ".") == "" {
		return "", errors.New("owner id is required")
	}

	dir := filepath.Join(s.root, OwnerDir(ownerID))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create owner dir: %w", err)
	}
	name := fmt.Sprintf("%d-%s-%s", s.now().UnixNano(), uuid.NewString(), SanitizeName(fileName))
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write document: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close document: %w", err)
	}
	return path, nil
}

// Delete borra un documento guardado. Rutas fuera de root se rechazan.
func (s *LocalStorage) Delete(_ context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(s.root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("path outside upload dir: %s", path)
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
