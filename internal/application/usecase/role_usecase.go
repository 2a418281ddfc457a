package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kajamart/admin-api/internal/application/dto"
	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/rbac"
	"github.com/kajamart/admin-api/internal/domain/repository"
	"github.com/kajamart/admin-api/pkg/eventbus"
)

// RoleUseCase roles y su matriz de permisos.
type RoleUseCase struct {
	repo        repository.RoleRepository
	users       repository.UserRepository
	permissions repository.PermissionRepository
	changes     *eventbus.Bus[domain.EntityChanged]
	now         func() time.Time
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(repo repository.RoleRepository, users repository.UserRepository, permissions repository.PermissionRepository, changes *eventbus.Bus[domain.EntityChanged]) *RoleUseCase {
	return &RoleUseCase{repo: repo, users: users, permissions: permissions, changes: changes, now: time.Now}
}

// Permissions catálogo completo de permisos.
func (uc *RoleUseCase) Permissions(ctx context.Context) ([]dto.PermissionDTO, error) {
	list, err := uc.permissions.All(ctx)
	if err != nil {
		return nil, err
	}
	return toPermissionDTOs(list), nil
}

// GetByID devuelve domain.ErrNotFound si no existe.
func (uc *RoleUseCase) GetByID(ctx context.Context, id string) (*dto.RoleResponse, error) {
	role, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	out := toRoleResponse(*role)
	return &out, nil
}

// Create crea un rol. Los permisos pasan por la matriz: toda escritura agrega la lectura.
func (uc *RoleUseCase) Create(ctx context.Context, in dto.RoleRequest) (*dto.RoleResponse, error) {
	if err := uc.ensureUniqueName(ctx, "", in.Name); err != nil {
		return nil, err
	}
	perms, err := matrixPermissions(in.Permissions)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	role := &entity.Role{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Status:      statusOrActive(in.Status),
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, role); err != nil {
		return nil, err
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityRoles, ID: role.ID, Action: domain.ActionCreated})
	out := toRoleResponse(*role)
	return &out, nil
}

// Update reemplaza nombre, descripción, estado y matriz del rol.
func (uc *RoleUseCase) Update(ctx context.Context, id string, in dto.RoleRequest) (*dto.RoleResponse, error) {
	role, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.ensureUniqueName(ctx, id, in.Name); err != nil {
		return nil, err
	}
	perms, err := matrixPermissions(in.Permissions)
	if err != nil {
		return nil, err
	}
	renamed := strings.TrimSpace(in.Name) != role.Name
	role.Name = strings.TrimSpace(in.Name)
	role.Description = strings.TrimSpace(in.Description)
	if in.Status != "" {
		role.Status = in.Status
	}
	role.Permissions = perms
	role.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, role); err != nil {
		return nil, err
	}
	if renamed {
		if err := uc.renameInUsers(ctx, role); err != nil {
			return nil, err
		}
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityRoles, ID: role.ID, Action: domain.ActionUpdated})
	out := toRoleResponse(*role)
	return &out, nil
}

// renameInUsers copia el nombre nuevo a los usuarios del rol.
func (uc *RoleUseCase) renameInUsers(ctx context.Context, role *entity.Role) error {
	users, err := uc.users.All(ctx)
	if err != nil {
		return err
	}
	touched := false
	for i := range users {
		if users[i].RoleID != role.ID {
			continue
		}
		users[i].RoleName = role.Name
		if err := uc.users.Update(ctx, &users[i]); err != nil {
			return err
		}
		touched = true
	}
	if touched {
		uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityUsers, Action: domain.ActionUpdated})
	}
	return nil
}

// Delete rechaza con domain.ErrConflict un rol asignado a algún usuario.
func (uc *RoleUseCase) Delete(ctx context.Context, id string) error {
	users, err := uc.users.All(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.RoleID == id {
			return fmt.Errorf("%w: el rol está asignado a %s", domain.ErrConflict, u.Email)
		}
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityRoles, ID: id, Action: domain.ActionDeleted})
	return nil
}

func (uc *RoleUseCase) ensureUniqueName(ctx context.Context, selfID, name string) error {
	existing, err := uc.repo.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.ErrDuplicate
	}
	return nil
}

// matrixPermissions resuelve claves "modulo:accion" (o sus variantes heredadas) y las pasa por la matriz.
func matrixPermissions(keys []string) ([]entity.Permission, error) {
	m := rbac.NewMatrix()
	for _, key := range keys {
		p, err := rbac.LegacyRef(key).Resolve()
		if err != nil {
			return nil, fmt.Errorf("%w: permiso %q: %w", domain.ErrInvalidInput, key, err)
		}
		if err := m.Grant(p.Module, p.Action); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	}
	return m.Permissions(), nil
}
