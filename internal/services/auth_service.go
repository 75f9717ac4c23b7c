package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/dto"
	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrRegistrationClosed = errors.New("registration is currently disabled")
)

type AuthService struct {
	store    repository.Store
	cfg      *config.Config
	settings *SettingsService
	now      func() time.Time
}

func NewAuthService(store repository.Store, cfg *config.Config, settings *SettingsService) *AuthService {
	return &AuthService{store: store, cfg: cfg, settings: settings, now: time.Now}
}

// Register creates a user. Mentors get an empty mentor profile in the same
// transaction. Emails listed in ADMIN_EMAILS register as admins.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	cfg, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.General.AllowRegistration {
		return nil, ErrRegistrationClosed
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if len(email) == 0 || len(req.Password) < 8 {
		return nil, errors.New("email required and password must be at least 8 characters")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleMentor {
		return nil, ErrInvalidRole
	}
	if s.isAdminEmail(email) {
		role = models.RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       email,
		Password:    string(hash),
		Role:        role,
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().FindByEmail(ctx, email); err == nil {
			return ErrEmailTaken
		}
		if err := tx.Users().Create(ctx, &user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		if role == models.RoleMentor {
			if err := tx.Mentors().Create(ctx, &models.MentorProfile{UserID: user.ID}); err != nil {
				return fmt.Errorf("failed to create mentor profile: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID, "role", user.Role)
	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.store.Users().FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.store.Users().Save(ctx, user); err != nil {
		slog.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	return s.generateTokenPair(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	stored, err := s.store.Tokens().FindActiveByHash(ctx, tokenHash)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if err := s.store.Tokens().Revoke(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if s.now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	user, err := s.store.Users().FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return s.generateTokenPair(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	return s.store.Tokens().RevokeByHash(ctx, hashToken(req.RefreshToken))
}

func (s *AuthService) isAdminEmail(email string) bool {
	for _, e := range strings.Split(s.cfg.AdminEmails, ",") {
		if strings.EqualFold(strings.TrimSpace(e), email) && email != "" {
			return true
		}
	}
	return false
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.NewUserResponse(user),
	}, nil
}

// GenerateAccessToken signs a short-lived HS256 token carrying sub, email and
// role.
func (s *AuthService) GenerateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: s.now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.store.Tokens().Create(ctx, &record); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
