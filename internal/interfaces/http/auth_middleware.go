package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/almoxsys/almoxarifado-api/internal/application/dto"
	"github.com/almoxsys/almoxarifado-api/pkg/jwt"
)

// Locals keys para UserID e Perfil no Fiber.
const (
	LocalUserID = "user_id"
	LocalPerfil = "perfil"
)

// AuthMiddleware valida o Bearer Token JWT e coloca UserID e Perfil em
// c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header obrigatório"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vazio"})
		}
		userID, perfil, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido ou expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalPerfil, perfil)
		return c.Next()
	}
}

// RequireRole autoriza apenas os perfis listados (RBAC na borda; o núcleo
// revalida a permissão nas operações de mutação).
func RequireRole(perfis ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		atual := GetPerfil(c)
		for _, p := range perfis {
			if atual == p {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "perfil sem permissão para esta operação"})
	}
}

// GetUserID devolve o UserID do contexto (após o middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetPerfil devolve o Perfil do contexto (após o middleware de auth).
func GetPerfil(c *fiber.Ctx) string {
	v := c.Locals(LocalPerfil)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
