package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/kajamart/admin-api/internal/application/dto"
	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/repository"
	"github.com/kajamart/admin-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// PermissionKeys resuelve los permisos "modulo:accion" del rol para la respuesta de login.
type PermissionKeys interface {
	Keys(ctx context.Context, roleID string) ([]string, error)
}

// AuthUseCase login con email y password.
type AuthUseCase struct {
	userRepo repository.UserRepository
	perms    PermissionKeys
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, perms PermissionKeys, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, perms: perms, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT y retorna token, usuario y permisos del rol.
// Email desconocido y password incorrecto devuelven el mismo domain.ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.StatusActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.RoleID, user.Name, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	keys, err := uc.perms.Keys(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:       token,
		User:        toUserResponse(user),
		Permissions: keys,
	}, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Document:  u.Document,
		Name:      u.Name,
		Email:     u.Email,
		RoleID:    u.RoleID,
		RoleName:  u.RoleName,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
