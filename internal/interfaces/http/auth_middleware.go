package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ti/internal/application/dto"
	"github.com/jhoicas/inventario-ti/pkg/jwt"
)

// Locals keys y cookie de autenticación.
const (
	LocalUserID     = "user_id"
	LocalUsername   = "username"
	AuthCookieName  = "access_token"
	bearerPrefixLen = len("Bearer ")
)

// AuthMiddleware valida el JWT (header Authorization: Bearer o cookie access_token)
// y deja UserID y Username en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, code, msg := extractToken(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
		}
		userID, username, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalUsername, username)
		return c.Next()
	}
}

// extractToken prioriza el header; sin header usa la cookie.
func extractToken(c *fiber.Ctx) (token, code, msg string) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		if cookie := strings.TrimSpace(c.Cookies(AuthCookieName)); cookie != "" {
			return cookie, "", ""
		}
		return "", "MISSING_TOKEN", "Authorization header o cookie access_token requerido"
	}
	if len(authHeader) < bearerPrefixLen || !strings.EqualFold(authHeader[:bearerPrefixLen], "Bearer ") {
		return "", "INVALID_TOKEN", "formato: Bearer <token>"
	}
	token = strings.TrimSpace(authHeader[bearerPrefixLen:])
	if token == "" {
		return "", "MISSING_TOKEN", "token vacío"
	}
	return token, "", ""
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetUsername devuelve el username del contexto (después del middleware de auth).
func GetUsername(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUsername).(string)
	return s
}
