package filestore

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/jhoicas/inventario-ti/internal/application/inventory"
)

var _ inventory.ReceiptArchiver = ZipArchiver{}

// ZipArchiver empaqueta comprobantes en un ZIP en memoria, un PDF por entrada.
type ZipArchiver struct{}

// Archive devuelve los bytes del ZIP. Nombres repetidos se conservan una sola vez.
func (ZipArchiver) Archive(files []inventory.ReceiptFile) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		fw, err := zw.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("zip: crear entrada %s: %w", f.Name, err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			return nil, fmt.Errorf("zip: escribir %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}
