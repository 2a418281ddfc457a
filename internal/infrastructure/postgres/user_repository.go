package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/repository"
)

var (
	_ repository.UserRepository       = (*UserRepo)(nil)
	_ repository.RoleRepository       = (*RoleRepo)(nil)
	_ repository.PermissionRepository = (*PermissionRepo)(nil)
)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userSelect = `
	SELECT u.id, u.document, u.name, u.email, u.password_hash, COALESCE(u.role_id, ''), COALESCE(r.name, ''),
	       u.status, u.created_at, u.updated_at
	FROM users u LEFT JOIN roles r ON r.id = u.role_id`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.Document, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.RoleName,
		&u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// All lista los usuarios.
func (r *UserRepo) All(ctx context.Context) ([]entity.User, error) {
	return collect(ctx, r.q, "users", scanUser, userSelect+` ORDER BY u.created_at, u.id`)
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return getOne(ctx, r.q, "user by id", scanUser, userSelect+` WHERE u.id = $1`, id)
}

// GetByEmail obtiene un usuario por email, sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return getOne(ctx, r.q, "user by email", scanUser, userSelect+` WHERE lower(u.email) = $1 LIMIT 1`,
		strings.ToLower(strings.TrimSpace(email)))
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO users (id, document, name, email, password_hash, role_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Document, u.Name, u.Email, u.PasswordHash, nullableString(u.RoleID), u.Status, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Update actualiza un usuario.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	return execMutation(ctx, r.q, "update user", `
		UPDATE users SET document = $2, name = $3, email = $4, password_hash = $5, role_id = $6, status = $7, updated_at = $8
		WHERE id = $1`,
		u.ID, u.Document, u.Name, u.Email, u.PasswordHash, nullableString(u.RoleID), u.Status, u.UpdatedAt)
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return execMutation(ctx, r.q, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

// RoleRepo roles con su matriz de permisos (role_permissions).
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador.
func NewRoleRepository(q Querier) *RoleRepo { return &RoleRepo{q: q} }

const roleSelect = `SELECT id, name, description, status, created_at, updated_at FROM roles`

func scanRole(row pgx.Row) (*entity.Role, error) {
	var role entity.Role
	if err := row.Scan(&role.ID, &role.Name, &role.Description, &role.Status, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return nil, err
	}
	return &role, nil
}

// All lista los roles con sus permisos.
func (r *RoleRepo) All(ctx context.Context) ([]entity.Role, error) {
	roles, err := collect(ctx, r.q, "roles", scanRole, roleSelect+` ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	perms, err := r.permissions(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range roles {
		roles[i].Permissions = perms[roles[i].ID]
	}
	return roles, nil
}

// GetByID obtiene un rol con sus permisos.
func (r *RoleRepo) GetByID(ctx context.Context, id string) (*entity.Role, error) {
	return r.getWithPermissions(ctx, roleSelect+` WHERE id = $1`, id)
}

// GetByName obtiene un rol por nombre, sin distinguir mayúsculas.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	return r.getWithPermissions(ctx, roleSelect+` WHERE lower(name) = lower($1)`, strings.TrimSpace(name))
}

func (r *RoleRepo) getWithPermissions(ctx context.Context, query string, arg string) (*entity.Role, error) {
	role, err := getOne(ctx, r.q, "role", scanRole, query, arg)
	if err != nil || role == nil {
		return role, err
	}
	perms, err := r.permissions(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	role.Permissions = perms[role.ID]
	return role, nil
}

// permissions agrupa role_permissions por rol; roleID vacío trae todos.
func (r *RoleRepo) permissions(ctx context.Context, roleID string) (map[string][]entity.Permission, error) {
	rows, err := r.q.Query(ctx, `
		SELECT role_id, module, action FROM role_permissions
		WHERE $1 = '' OR role_id = $1 ORDER BY role_id, module, action`, roleID)
	if err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.Permission)
	for rows.Next() {
		var id string
		var p entity.Permission
		if err := rows.Scan(&id, &p.Module, &p.Action); err != nil {
			return nil, fmt.Errorf("scan role permission: %w", err)
		}
		p.ID = p.Key()
		out[id] = append(out[id], p)
	}
	return out, rows.Err()
}

// Create persiste el rol y su matriz en una transacción.
func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := execMutation(ctx, tx, "insert role", `
			INSERT INTO roles (id, name, description, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			role.ID, role.Name, role.Description, role.Status, role.CreatedAt, role.UpdatedAt); err != nil {
			return err
		}
		return insertRolePermissions(ctx, tx, role)
	})
}

// Update reemplaza datos y matriz del rol.
func (r *RoleRepo) Update(ctx context.Context, role *entity.Role) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := execMutation(ctx, tx, "update role", `
			UPDATE roles SET name = $2, description = $3, status = $4, updated_at = $5 WHERE id = $1`,
			role.ID, role.Name, role.Description, role.Status, role.UpdatedAt); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, role.ID); err != nil {
			return fmt.Errorf("clear role permissions: %w", err)
		}
		return insertRolePermissions(ctx, tx, role)
	})
}

// Delete elimina el rol; con usuarios asignados devuelve domain.ErrConflict.
func (r *RoleRepo) Delete(ctx context.Context, id string) error {
	return execMutation(ctx, r.q, "delete role", `DELETE FROM roles WHERE id = $1`, id)
}

func (r *RoleRepo) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin role tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit role tx: %w", err)
	}
	return nil
}

func insertRolePermissions(ctx context.Context, tx pgx.Tx, role *entity.Role) error {
	batch := &pgx.Batch{}
	for _, p := range role.Permissions {
		batch.Queue(`INSERT INTO role_permissions (role_id, module, action) VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING`, role.ID, p.Module, p.Action)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert role permissions: %w", err)
	}
	return nil
}

// PermissionRepo catálogo de permisos.
type PermissionRepo struct {
	q Querier
}

// NewPermissionRepository construye el adaptador.
func NewPermissionRepository(q Querier) *PermissionRepo { return &PermissionRepo{q: q} }

// All lista el catálogo de permisos.
func (r *PermissionRepo) All(ctx context.Context) ([]entity.Permission, error) {
	return collect(ctx, r.q, "permissions", func(row pgx.Row) (*entity.Permission, error) {
		var p entity.Permission
		if err := row.Scan(&p.ID, &p.Module, &p.Action); err != nil {
			return nil, err
		}
		return &p, nil
	}, `SELECT id, module, action FROM permissions ORDER BY module, action`)
}
