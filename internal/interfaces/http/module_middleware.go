package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/kajamart/admin-api/internal/application/dto"
	"github.com/kajamart/admin-api/internal/application/usecase"
)

// permissionChecker es el contrato mínimo que necesita el middleware para verificar permisos.
// Lo implementa *usecase.ModuleService.
type permissionChecker interface {
	HasPermission(ctx context.Context, roleID, module, action string) (bool, error)
}

// RequirePermission verifica que el rol del token tenga action sobre module.
// Debe usarse DESPUÉS de AuthMiddleware.
//
//   - 401 → el token no trae rol.
//   - 403 → el rol no tiene el permiso, está inactivo o no existe.
//   - 503 → fallo de infraestructura al leer el rol.
func RequirePermission(module, action string, checker permissionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return checkPermission(c, checker, module, action)
	}
}

// RequireListPermission igual que RequirePermission pero el módulo sale del listado de :entity.
// Una entidad desconocida pasa para que el handler responda 404.
func RequireListPermission(lists *usecase.ListRegistry, action string, checker permissionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lister, err := lists.Get(c.Params("entity"))
		if err != nil {
			return c.Next()
		}
		return checkPermission(c, checker, lister.Module(), action)
	}
}

func checkPermission(c *fiber.Ctx, checker permissionChecker, module, action string) error {
	if ok, err := authorize(c, checker, module, action); !ok {
		return err
	}
	return c.Next()
}

// authorize responde 401/403/503 y devuelve false si el rol del token no tiene el permiso.
func authorize(c *fiber.Ctx, checker permissionChecker, module, action string) (bool, error) {
	roleID := GetRoleID(c)
	if roleID == "" {
		return false, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Code:    "MISSING_ROLE",
			Message: "el token no incluye el rol",
		})
	}
	ok, err := checker.HasPermission(c.UserContext(), roleID, module, action)
	if err != nil {
		log.Error().Err(err).Str("role_id", roleID).Str("module", module).Msg("verificación de permisos")
		return false, c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code:    "PERMISSION_CHECK_FAILED",
			Message: "no se pudo verificar el permiso, intente más tarde",
		})
	}
	if !ok {
		return false, c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "sin permiso para " + action + " en " + module,
		})
	}
	return true, nil
}
