package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/jhoicas/inventario-ti/internal/application/cart"
	"github.com/jhoicas/inventario-ti/pkg/config"
)

// Claves dentro de la sesión.
const (
	sessionCartKey      = "cart"
	sessionIssueTypeKey = "issue_type"
)

// cartSession carrito y tipo de entrega pendiente cargados de la sesión del usuario.
type cartSession struct {
	sess      *session.Session
	Cart      *cart.Cart
	IssueType string
}

func loadCartSession(store *session.Store, c *fiber.Ctx) (*cartSession, error) {
	sess, err := store.Get(c)
	if err != nil {
		return nil, fmt.Errorf("sesión: %w", err)
	}
	raw, _ := sess.Get(sessionCartKey).(string)
	ct, err := cart.Unmarshal([]byte(raw))
	if err != nil {
		// Una sesión corrupta no debe bloquear al usuario: se empieza de cero
		ct = cart.New()
	}
	issueType, _ := sess.Get(sessionIssueTypeKey).(string)
	return &cartSession{sess: sess, Cart: ct, IssueType: issueType}, nil
}

// save persiste carrito y tipo pendiente.
func (s *cartSession) save() error {
	raw, err := s.Cart.Marshal()
	if err != nil {
		return err
	}
	s.sess.Set(sessionCartKey, string(raw))
	if s.IssueType == "" {
		s.sess.Delete(sessionIssueTypeKey)
	} else {
		s.sess.Set(sessionIssueTypeKey, s.IssueType)
	}
	if err := s.sess.Save(); err != nil {
		return fmt.Errorf("guardar sesión: %w", err)
	}
	return nil
}

// reset vacía carrito y tipo pendiente (tras un checkout confirmado).
func (s *cartSession) reset() error {
	s.Cart.Clear()
	s.IssueType = ""
	return s.save()
}

// NewSessionStore crea el store de sesiones de Fiber. storage nil = memoria.
func NewSessionStore(storage fiber.Storage, cfg config.SessionConfig) *session.Store {
	return session.New(session.Config{
		Storage:        storage,
		Expiration:     cfg.Expiration,
		KeyLookup:      "cookie:" + cfg.CookieName,
		CookieSecure:   cfg.Secure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}
