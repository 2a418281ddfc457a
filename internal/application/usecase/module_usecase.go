package usecase

import (
	"context"
	"fmt"

	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/rbac"
	"github.com/kajamart/admin-api/internal/domain/repository"
)

// ModuleService verifica qué acciones tiene un rol sobre cada módulo del panel.
// Es el único punto de la aplicación que interpreta la matriz de permisos de un rol.
type ModuleService struct {
	roles repository.RoleRepository
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(roles repository.RoleRepository) *ModuleService {
	return &ModuleService{roles: roles}
}

// HasPermission informa si el rol tiene la acción sobre el módulo.
// Devuelve false (sin error) si el rol no existe, está inactivo o no tiene el permiso.
// Devuelve error solo ante fallos de infraestructura (DB caída, timeout, etc.).
func (s *ModuleService) HasPermission(ctx context.Context, roleID, module, action string) (bool, error) {
	if roleID == "" || module == "" || action == "" {
		return false, fmt.Errorf("module: roleID, module y action son obligatorios")
	}
	m, err := s.matrix(ctx, roleID)
	if err != nil || m == nil {
		return false, err
	}
	return m.Has(module, action), nil
}

// Keys devuelve los permisos "modulo:accion" del rol (vacío si no existe o está inactivo).
func (s *ModuleService) Keys(ctx context.Context, roleID string) ([]string, error) {
	m, err := s.matrix(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return []string{}, nil
	}
	return m.Keys(), nil
}

func (s *ModuleService) matrix(ctx context.Context, roleID string) (*rbac.Matrix, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil || role.Status != entity.StatusActive {
		return nil, nil
	}
	m, err := rbac.MatrixFrom(role.Permissions)
	if err != nil {
		return nil, fmt.Errorf("matriz del rol %s: %w", roleID, err)
	}
	return m, nil
}
