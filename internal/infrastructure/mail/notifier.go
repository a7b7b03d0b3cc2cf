// Package mail envía los comprobantes por SMTP con gomail.
package mail

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/inventario-ti/internal/application/inventory"
	"github.com/jhoicas/inventario-ti/pkg/config"
)

var _ inventory.ReceiptNotifier = (*Notifier)(nil)

// ErrNotConfigured el SMTP no tiene host o usuario; el envío se omite.
var ErrNotConfigured = errors.New("mail: smtp no configurado")

// Notifier envía el PDF adjunto al receptor.
type Notifier struct {
	cfg    config.SMTPConfig
	org    string
	sender gomail.Sender // nil: gomail.Dialer por cada envío
}

// NewNotifier construye el notificador a partir de la configuración SMTP.
func NewNotifier(cfg config.SMTPConfig, orgName string) *Notifier {
	return &Notifier{cfg: cfg, org: orgName}
}

// WithSender reemplaza el transporte SMTP (tests).
func (n *Notifier) WithSender(s gomail.Sender) *Notifier {
	n.sender = s
	return n
}

// SendReceipts envía los comprobantes adjuntos en un solo correo. Sin configuración SMTP
// devuelve ErrNotConfigured sin conectar.
func (n *Notifier) SendReceipts(_ context.Context, to, name string, files []inventory.ReceiptFile) error {
	if !n.cfg.Enabled() && n.sender == nil {
		return ErrNotConfigured
	}
	if to == "" {
		return fmt.Errorf("mail: destinatario vacío")
	}
	if len(files) == 0 {
		return fmt.Errorf("mail: sin comprobantes para %s", to)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetAddressHeader("To", to, name)
	m.SetHeader("Subject", "Comprobante de entrega de equipo")
	m.SetBody("text/plain", body(name, n.org, len(files)))
	for _, f := range files {
		data := f.Data
		m.Attach(f.Name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	if n.sender != nil {
		if err := gomail.Send(n.sender, m); err != nil {
			return fmt.Errorf("mail: enviar: %w", err)
		}
		return nil
	}
	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("mail: enviar a %s: %w", to, err)
	}
	return nil
}

func body(name, org string, n int) string {
	if name == "" || name == "—" {
		name = "Hola"
	} else {
		name = "Hola " + name
	}
	if org == "" {
		org = "Departamento de TI"
	}
	what := "el comprobante del equipo entregado"
	if n > 1 {
		what = fmt.Sprintf("los %d comprobantes del equipo entregado", n)
	}
	return fmt.Sprintf("%s,\n\nAdjuntamos %s.\n\nSaludos,\n%s\n", name, what, org)
}
