package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/jhoicas/inventario-ti/internal/application/auth"
	"github.com/jhoicas/inventario-ti/internal/application/dto"
)

// AuthHandler maneja registro, login, logout y /me.
type AuthHandler struct {
	uc           *auth.AuthUseCase
	sessions     *session.Store
	secureCookie bool
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.AuthUseCase, sessions *session.Store, secureCookie bool) *AuthHandler {
	return &AuthHandler{uc: uc, sessions: sessions, secureCookie: secureCookie}
}

// Register godoc
// @Summary      Registrar técnico
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Usuario, contraseña y confirmación"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return validationError(c, err)
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Devuelve el JWT y además lo deja en la cookie access_token. Descarta la sesión anterior.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credenciales"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return validationError(c, err)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	// Cada login empieza con sesión limpia: sin carrito ni tipo de entrega de otro operador
	if sess, err := h.sessions.Get(c); err == nil {
		if err := sess.Destroy(); err != nil {
			return writeError(c, err)
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     AuthCookieName,
		Value:    out.Token,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(out.ExpiresIn) * time.Second),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  Descarta el carrito y el tipo de entrega pendiente, y borra la cookie.
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			return writeError(c, err)
		}
	}
	c.ClearCookie(AuthCookieName)
	return c.JSON(dto.MessageResponse{Message: "sesión cerrada"})
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.uc.GetUser(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(auth.ToUserResponse(user))
}
