// seed carga artículos desde un CSV exportado de la hoja de inventario.
//
// Uso: go run ./cmd/seed [ruta/inventario.csv]
// Por defecto busca inventario.csv en el directorio actual. Con ADMIN_PASSWORD
// definido crea también la cuenta admin si no existe. Separador ";" y
// codificación UTF-8 o ISO-8859-1 (exportación de Excel). Los artículos con
// SKU o código de barras ya existentes se omiten.
package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-ti/internal/application/auth"
	"github.com/jhoicas/inventario-ti/internal/application/dto"
	"github.com/jhoicas/inventario-ti/internal/application/usecase"
	"github.com/jhoicas/inventario-ti/internal/domain"
	"github.com/jhoicas/inventario-ti/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ti/pkg/config"
	"github.com/jhoicas/inventario-ti/pkg/logger"
)

func main() {
	csvPath := "inventario.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	items, err := parseItems(bytes.NewReader(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "seed"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if _, err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	if cfg.App.AdminPassword != "" {
		authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{Secret: cfg.JWT.Secret})
		created, err := authUC.EnsureAdmin(ctx, cfg.App.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("crear usuario admin")
		}
		log.Info().Bool("creado", created).Str("username", auth.AdminUsername).Msg("usuario admin")
	}

	uc := usecase.NewItemUseCase(
		postgres.NewItemRepository(pool),
		postgres.NewMovementRepository(pool),
		postgres.NewTxRunner(pool),
		log,
	)
	var created, skipped int
	for i, in := range items {
		if _, err := uc.Create(ctx, in); err != nil {
			if errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrInvalidInput) {
				log.Warn().Err(err).Int("fila", i+2).Str("name", in.Name).Msg("artículo omitido")
				skipped++
				continue
			}
			log.Fatal().Err(err).Int("fila", i+2).Msg("crear artículo")
		}
		created++
	}
	log.Info().Int("creados", created).Int("omitidos", skipped).Str("archivo", csvPath).Msg("carga terminada")
}

// Columnas reconocidas (cabecera, sin distinguir mayúsculas).
var columns = map[string]func(*dto.CreateItemRequest, string) error{
	"name":             func(r *dto.CreateItemRequest, v string) error { r.Name = v; return nil },
	"sku":              func(r *dto.CreateItemRequest, v string) error { r.SKU = v; return nil },
	"barcode":          func(r *dto.CreateItemRequest, v string) error { r.Barcode = v; return nil },
	"category":         func(r *dto.CreateItemRequest, v string) error { r.Category = v; return nil },
	"subcategory":      func(r *dto.CreateItemRequest, v string) error { r.Subcategory = v; return nil },
	"inventory_number": func(r *dto.CreateItemRequest, v string) error { r.InventoryNumber = v; return nil },
	"serial_number":    func(r *dto.CreateItemRequest, v string) error { r.SerialNumber = v; return nil },
	"quantity":         func(r *dto.CreateItemRequest, v string) (err error) { r.Quantity, err = atoi(v); return },
	"min_quantity":     func(r *dto.CreateItemRequest, v string) (err error) { r.MinQuantity, err = atoi(v); return },
}

// parseItems lee el CSV completo. La primera fila es la cabecera; "name" es obligatoria.
func parseItems(r io.Reader) ([]dto.CreateItemRequest, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cabecera: %w", err)
	}
	setters := make([]func(*dto.CreateItemRequest, string) error, len(header))
	hasName := false
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		setters[i] = columns[key]
		hasName = hasName || key == "name"
	}
	if !hasName {
		return nil, fmt.Errorf("cabecera: falta la columna name")
	}

	var out []dto.CreateItemRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", line, err)
		}
		var item dto.CreateItemRequest
		for i, v := range rec {
			if i >= len(setters) || setters[i] == nil {
				continue
			}
			if err := setters[i](&item, strings.TrimSpace(v)); err != nil {
				return nil, fmt.Errorf("fila %d, columna %s: %w", line, header[i], err)
			}
		}
		if item.Name == "" {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func atoi(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
