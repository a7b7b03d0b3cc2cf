package filestore_test

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ti/internal/application/inventory"
	"github.com/jhoicas/inventario-ti/internal/infrastructure/filestore"
)

func TestZipArchiver_UnaEntradaPorComprobante(t *testing.T) {
	data, err := filestore.ZipArchiver{}.Archive([]inventory.ReceiptFile{
		{Name: "comprobante_1.pdf", Data: []byte("%PDF-uno")},
		{Name: "comprobante_2.pdf", Data: []byte("%PDF-dos")},
		{Name: "comprobante_1.pdf", Data: []byte("%PDF-repetido")},
	})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "comprobante_1.pdf", zr.File[0].Name)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-dos", string(content))
}

func TestZipArchiver_SinArchivos(t *testing.T) {
	data, err := filestore.ZipArchiver{}.Archive(nil)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Empty(t, zr.File)
}
