package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"refrescobot/domain"
	"refrescobot/pkg/logger"
	"refrescobot/pkg/utils"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// TokenStore keeps issued tokens so they can be revoked early.
type TokenStore interface {
	StoreToken(ctx context.Context, data domain.AdminToken, ttl time.Duration) error
	RevokeToken(ctx context.Context, token string) error
}

type Config struct {
	Username     string
	PasswordHash string
	JWTSecret    string
	TokenTTL     time.Duration
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type adminService struct {
	tokens TokenStore
	cfg    Config
}

func NewAdminService(tokens TokenStore, cfg Config) *adminService {
	return &adminService{
		tokens: tokens,
		cfg:    cfg,
	}
}

// Login checks the single configured admin account and issues a token.
func (s *adminService) Login(ctx context.Context, username, password, ipAddress, userAgent string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, fmt.Errorf("context error: %w", err)
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	passOK := utils.CheckPassword(password, s.cfg.PasswordHash)
	if !userOK || !passOK {
		logger.Warn("admin_login_rejected", "username", username, "ip", ipAddress)
		return Session{}, ErrInvalidCredentials
	}

	token, expiresAt, err := utils.GenerateJWT(s.cfg.JWTSecret, s.cfg.Username, utils.RoleAdmin, s.cfg.TokenTTL)
	if err != nil {
		return Session{}, fmt.Errorf("generate token: %w", err)
	}

	err = s.tokens.StoreToken(ctx, domain.AdminToken{
		Subject:   s.cfg.Username,
		Role:      utils.RoleAdmin,
		Token:     token,
		IssuedAt:  time.Now(),
		ExpiresAt: expiresAt,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}, s.cfg.TokenTTL)
	if err != nil {
		return Session{}, fmt.Errorf("store token: %w", err)
	}

	logger.Info("admin_login", "username", username, "ip", ipAddress)
	return Session{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *adminService) Logout(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if err := s.tokens.RevokeToken(ctx, token); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
