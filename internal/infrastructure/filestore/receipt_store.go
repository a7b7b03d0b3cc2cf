// Package filestore guarda los comprobantes PDF sobre un afero.Fs
// (disco en producción, memoria en tests).
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/inventario-ti/internal/application/inventory"
	"github.com/jhoicas/inventario-ti/internal/domain"
)

var _ inventory.ReceiptStore = (*ReceiptStore)(nil)

// ReceiptStore escribe los PDF bajo un directorio base.
type ReceiptStore struct {
	fs  afero.Fs
	dir string
}

// NewReceiptStore construye el store. dir vacío usa "receipts".
func NewReceiptStore(fsys afero.Fs, dir string) *ReceiptStore {
	if dir == "" {
		dir = "receipts"
	}
	return &ReceiptStore{fs: fsys, dir: filepath.Clean(dir)}
}

// NewOSReceiptStore store sobre el sistema de archivos real.
func NewOSReceiptStore(dir string) *ReceiptStore {
	return NewReceiptStore(afero.NewOsFs(), dir)
}

// Save escribe data en dir/name y devuelve esa ruta.
func (s *ReceiptStore) Save(_ context.Context, name string, data []byte) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: nombre de archivo %q", domain.ErrInvalidInput, name)
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("filestore: crear directorio: %w", err)
	}
	path := filepath.Join(s.dir, name)
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("filestore: escribir %s: %w", path, err)
	}
	return path, nil
}

// Load lee un PDF guardado. ErrNotFound si no existe; rechaza rutas fuera del directorio base.
func (s *ReceiptStore) Load(_ context.Context, path string) ([]byte, error) {
	clean := filepath.Clean(path)
	if clean != s.dir && !strings.HasPrefix(clean, s.dir+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: ruta fuera del directorio de comprobantes", domain.ErrInvalidInput)
	}
	data, err := afero.ReadFile(s.fs, clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("filestore: leer %s: %w", clean, err)
	}
	return data, nil
}
