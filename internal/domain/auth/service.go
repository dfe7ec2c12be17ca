package auth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/homepro/homepro-api/internal/domain/session"
	"github.com/homepro/homepro-api/internal/pkg/jwt"
	"github.com/homepro/homepro-api/internal/pkg/password"
)

// AuthRepository is the persistence interface used by the service.
type AuthRepository interface {
	Create(ctx context.Context, p *Profile, role session.Role) error
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// ProviderLookup resolves the provider profile id for a user, if any.
// Embedded into access token claims so provider endpoints can authorize
// without a lookup per request.
type ProviderLookup interface {
	ProviderIDForUser(ctx context.Context, userID uuid.UUID) (uuid.NullUUID, error)
}

// Service handles authentication business logic
type Service struct {
	repo      AuthRepository
	providers ProviderLookup
	jwt       *jwt.Service
	redis     *redis.Client // nil if Redis disabled
}

// NewService creates auth service
func NewService(repo AuthRepository, providers ProviderLookup, jwtService *jwt.Service, rdb *redis.Client) *Service {
	return &Service{repo: repo, providers: providers, jwt: jwtService, redis: rdb}
}

// Register creates a new account with the customer role.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Profile{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.FullName != "" {
		p.FullName = sql.NullString{String: req.FullName, Valid: true}
	}
	if req.Phone != "" {
		p.Phone = sql.NullString{String: req.Phone, Valid: true}
	}
	if req.City != "" {
		p.City = sql.NullString{String: req.City, Valid: true}
	}

	if err := s.repo.Create(ctx, p, session.RoleCustomer); err != nil {
		return nil, err
	}

	return s.generateTokens(ctx, p)
}

// Login authenticates a user by email and password.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	p, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil || p == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, p.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, p)
}

// Refresh rotates the refresh token and issues a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	refreshHash := jwt.HashRefreshToken(refreshToken)
	userID, err := s.getRefreshToken(ctx, refreshHash)
	if err != nil || userID != claims.UserID {
		return nil, ErrInvalidRefreshToken
	}

	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil || p == nil {
		return nil, ErrUserNotFound
	}

	// rotation: the old token is gone whether or not the new pair issues
	_ = s.deleteRefreshToken(ctx, refreshHash)

	return s.generateTokens(ctx, p)
}

// Logout invalidates the refresh token.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.deleteRefreshToken(ctx, jwt.HashRefreshToken(refreshToken))
}

// GetCurrentUser returns the authenticated user's profile and roles.
func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil || p == nil {
		return nil, ErrUserNotFound
	}

	roles, err := s.repo.GetRoles(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := newUserResponse(userID, p, roles)
	return &resp, nil
}

func (s *Service) generateTokens(ctx context.Context, p *Profile) (*AuthResponse, error) {
	roles, err := s.repo.GetRoles(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	var providerID *uuid.UUID
	if s.providers != nil {
		id, err := s.providers.ProviderIDForUser(ctx, p.UserID)
		if err == nil && id.Valid {
			providerID = &id.UUID
		}
	}

	accessToken, err := s.jwt.GenerateAccessToken(p.UserID, roles, providerID)
	if err != nil {
		return nil, err
	}

	refreshToken, _, _, err := s.jwt.GenerateRefreshToken(p.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, jwt.HashRefreshToken(refreshToken), p.UserID); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: newUserResponse(p.UserID, p, roles),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwt.AccessTTL().Seconds()),
		},
	}, nil
}

func (s *Service) storeRefreshToken(ctx context.Context, tokenHash string, userID uuid.UUID) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Set(ctx, "refresh:"+tokenHash, userID.String(), s.jwt.RefreshTTL()).Err()
}

func (s *Service) getRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	if s.redis == nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	val, err := s.redis.Get(ctx, "refresh:"+tokenHash).Result()
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(val)
}

func (s *Service) deleteRefreshToken(ctx context.Context, tokenHash string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, "refresh:"+tokenHash).Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
