package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemByCodeQuery_CodigoDeBarrasAntesQueSKU(t *testing.T) {
	q := strings.Join(strings.Fields(itemByCodeQuery), " ")
	assert.Contains(t, q, "WHERE barcode = $1 OR sku = $1")
	assert.Contains(t, q, "ORDER BY (barcode = $1) IS TRUE DESC LIMIT 1")
}
