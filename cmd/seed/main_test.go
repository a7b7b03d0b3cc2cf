package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseItems_UTF8ConColumnasDesordenadas(t *testing.T) {
	in := "sku;Name;quantity;min_quantity;category;extra\n" +
		"MON-24;Monitor Dell 24;10;2;Monitores;x\n" +
		";;;;;\n" +
		"DOC-19;Docking WD19;;;;\n"

	items, err := parseItems(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, items, 2, "las filas sin nombre se ignoran")
	assert.Equal(t, "MON-24", items[0].SKU)
	assert.Equal(t, "Monitor Dell 24", items[0].Name)
	assert.Equal(t, 10, items[0].Quantity)
	assert.Equal(t, 2, items[0].MinQuantity)
	assert.Equal(t, "Monitores", items[0].Category)
	assert.Equal(t, 0, items[1].Quantity)
}

func TestParseItems_Latin1(t *testing.T) {
	utf := "name;category\nRatón inalámbrico;Periféricos\n"
	latin, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(utf))
	require.NoError(t, err)

	items, err := parseItems(bytes.NewReader(latin))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Ratón inalámbrico", items[0].Name)
	assert.Equal(t, "Periféricos", items[0].Category)
}

func TestParseItems_SinColumnaName(t *testing.T) {
	_, err := parseItems(strings.NewReader("sku;quantity\nA;1\n"))
	assert.Error(t, err)
}

func TestParseItems_CantidadNoNumerica(t *testing.T) {
	_, err := parseItems(strings.NewReader("name;quantity\nMonitor;diez\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fila 2")
}
