// Package pdf implementa el comprobante de entrega/devolución de equipos.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Organización + título  │  N° movimiento + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ARTÍCULO: nombre, SKU, cantidad, N° inventario / serie      │
//	│  RECEPTOR: nombre + departamento + email                     │
//	│  ENTREGADO POR: técnico                                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ESTADO DEL EQUIPO: teclado / daños (opcional)               │
//	│  FIRMA: imagen capturada                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el ID + fecha de generación                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-ti/internal/application/inventory"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
)

var _ inventory.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa inventory.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	orgName string
	now     func() time.Time
}

// NewMarotoReceiptGenerator construye el generador. orgName aparece en cabecera y pie.
func NewMarotoReceiptGenerator(orgName string) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{orgName: orgName, now: time.Now}
}

// GenerateReceipt genera el PDF del movimiento y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceipt(_ context.Context, mov *entity.Movement, item *entity.Item) ([]byte, error) {
	if mov == nil || item == nil {
		return nil, fmt.Errorf("pdf: movimiento y artículo son obligatorios")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle(receiptTitle(mov), true).
		WithAuthor(g.orgName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(mov, g.orgName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(itemRows(mov, item)...)
	m.AddRows(recipientRow(mov))
	m.AddRows(issuerRow(mov))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if mov.Type == entity.MovementTypeIssue {
		m.AddRows(conditionRows(mov)...)
	}
	sig, err := signatureRows(mov.Signature)
	if err != nil {
		return nil, err
	}
	m.AddRows(sig...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(mov, g.orgName, g.now()))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func receiptTitle(mov *entity.Movement) string {
	switch mov.Type {
	case entity.MovementTypeIssue:
		return "Comprobante de entrega"
	case entity.MovementTypeReturn:
		return "Comprobante de devolución"
	default:
		return "Comprobante de ajuste"
	}
}

// headerRow: organización + título (izq) y N° de movimiento + fecha (der).
func headerRow(mov *entity.Movement, orgName string) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(orgName, "Departamento de TI"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(strings.ToUpper(receiptTitle(mov)), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("N° "+shortID(mov.ID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+mov.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
			text.New("Motivo: "+nonEmpty(mov.Reason, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// itemRows: datos del artículo.
func itemRows(mov *entity.Movement, item *entity.Item) []core.Row {
	return []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("ARTÍCULO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		)),
		row.New(7).Add(
			col.New(8).Add(text.New(item.Name, props.Text{Style: fontstyle.Bold, Size: 11, Top: 1})),
			col.New(4).Add(text.New("Cantidad: "+strconv.Itoa(mov.Units()), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			})),
		),
		row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("SKU: %s   |   N° inventario: %s   |   N° serie: %s",
				nonEmpty(item.SKU, "—"),
				nonEmpty(mov.InventoryNumber, "—"),
				nonEmpty(mov.SerialNumber, "—"),
			), props.Text{Size: 8, Top: 1, Color: colorGray}),
		)),
	}
}

// recipientRow: datos de quien recibe o devuelve.
func recipientRow(mov *entity.Movement) core.Row {
	label := "RECEPTOR"
	if mov.Type == entity.MovementTypeReturn {
		label = "DEVUELTO POR"
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
			text.New(mov.RecipientName(), props.Text{Style: fontstyle.Bold, Size: 10, Top: 7}),
			text.New(fmt.Sprintf("Departamento: %s   |   Email: %s",
				nonEmpty(mov.RecipientDepartment, "—"),
				nonEmpty(mov.RecipientEmail, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// issuerRow: técnico que registró el movimiento.
func issuerRow(mov *entity.Movement) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("REGISTRADO POR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
			text.New(mov.IssuerName(), props.Text{Size: 10, Top: 7}),
		),
	)
}

// conditionRows: estado declarado del equipo entregado.
func conditionRows(mov *entity.Movement) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("ESTADO DEL EQUIPO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		)),
		row.New(6).Add(
			col.New(6).Add(text.New("Teclado incluido: "+yesNo(mov.HasKeyboard), props.Text{Size: 9, Top: 1})),
			col.New(6).Add(text.New("Daños: "+yesNo(mov.HasDamage), props.Text{Size: 9, Top: 1})),
		),
	}
	if mov.HasDamage && mov.DamageDescription != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Descripción del daño: "+mov.DamageDescription, props.Text{
				Size: 9, Top: 1, Color: colorDanger,
			}),
		)))
	}
	return rows
}

// signatureRows: imagen de la firma capturada; sin firma deja la línea para firmar a mano.
func signatureRows(dataURL string) ([]core.Row, error) {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("FIRMA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		)),
	}
	if dataURL == "" {
		rows = append(rows,
			row.New(18),
			row.New(1).Add(col.New(6).Add(line.New(props.Line{Color: colorGray, Thickness: 0.3}))),
		)
		return rows, nil
	}
	img, ext, err := DecodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	rows = append(rows, row.New(30).Add(
		col.New(6).Add(image.NewFromBytes(img, ext, props.Rect{Percent: 90, Left: 0, Top: 1})),
	))
	return rows, nil
}

// footerRow: QR con el ID del movimiento + fecha de generación.
func footerRow(mov *entity.Movement, orgName string, now time.Time) core.Row {
	return row.New(28).Add(
		col.New(3).Add(code.NewQr(mov.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("ID del movimiento: "+mov.ID, props.Text{Size: 7, Top: 4, Left: 3, Color: colorGray}),
			text.New("Generado el "+now.Format("02/01/2006 15:04:05"), props.Text{
				Size: 7, Top: 10, Left: 3, Color: colorGray,
			}),
			text.New(nonEmpty(orgName, "Departamento de TI")+" · Inventario de equipos", props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 16, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// DecodeDataURL decodifica una firma "data:image/png;base64,...". Solo PNG y JPEG.
func DecodeDataURL(dataURL string) ([]byte, extension.Type, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, "", fmt.Errorf("pdf: firma con formato inválido")
	}
	var ext extension.Type
	switch strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64") {
	case "image/png":
		ext = extension.Png
	case "image/jpeg", "image/jpg":
		ext = extension.Jpg
	default:
		return nil, "", fmt.Errorf("pdf: tipo de imagen de firma no soportado")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: decodificar firma: %w", err)
	}
	return data, ext, nil
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

// shortID primeros 8 caracteres del UUID, suficiente para referencia visual.
func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}
