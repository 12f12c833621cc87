package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/auth"
	"github.com/spec-kit/complaint-desk/internal/cache"
	"github.com/spec-kit/complaint-desk/internal/config"
	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/repository"
	apperrors "github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// AuthService coordinates admin login and logout.
type AuthService struct {
	admins     repository.AdminRepository
	revoked    cache.RevocationList
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	AdminRepo  repository.AdminRepository
	Revocation cache.RevocationList
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		admins:     deps.AdminRepo,
		revoked:    deps.Revocation,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// Login authenticates an admin by work id and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, workID, password string) (*domain.Admin, string, domain.Token, error) {
	admin, err := s.admins.GetByWorkID(ctx, strings.TrimSpace(workID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", domain.Token{}, apperrors.NewUnavailable("admin store", err)
	}
	if !admin.Active {
		return nil, "", domain.Token{}, apperrors.NewUnauthorized("admin inactive")
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, "", domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
	}
	signed, token, err := s.tokenMgr.GenerateToken(admin)
	if err != nil {
		return nil, "", domain.Token{}, apperrors.NewInternalError(err)
	}
	return admin, signed, token, nil
}

// Logout revokes the presented token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, token domain.Token) error {
	if s.revoked == nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, token.ID, token.ExpiresAt); err != nil {
		return apperrors.NewUnavailable("session store", err)
	}
	return nil
}

// EnsureAdmin creates an ADMIN with the given credentials unless the work id exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, workID, password string) (*domain.Admin, error) {
	workID = strings.TrimSpace(workID)
	if workID == "" || password == "" {
		return nil, apperrors.NewValidationError("work id and password required", nil)
	}
	if existing, err := s.admins.GetByWorkID(ctx, workID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	admin := &domain.Admin{
		WorkID:       workID,
		Name:         "Admin User",
		PasswordHash: hash,
		Role:         domain.AdminRoleAdmin,
		Active:       true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return s.admins.GetByWorkID(ctx, workID)
		}
		return nil, err
	}
	s.logger.Info("bootstrap admin created", zap.String("work_id", workID))
	return admin, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
