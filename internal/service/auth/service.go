package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/agricure/internal/domain/models"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
)

// Store persists user accounts.
type Store interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
}

// Service handles registration, login and profile management.
type Service struct {
	store  Store
	tokens *Tokens
	logger *zap.Logger
	cost   int
	now    func() time.Time
}

// NewService wires an auth service.
func NewService(store Store, tokens *Tokens, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		tokens: tokens,
		logger: logger,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
}

// SignUp registers an account and returns a session token.
func (s *Service) SignUp(ctx context.Context, req models.SignUpRequest) (models.AuthResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return models.AuthResponse{}, err
	}
	if err := checkPassword(req.Password); err != nil {
		return models.AuthResponse{}, err
	}
	if strings.TrimSpace(req.FullName) == "" {
		return models.AuthResponse{}, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		ProductID:    strings.TrimSpace(req.ProductKey),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return models.AuthResponse{}, ErrEmailTaken
		}
		return models.AuthResponse{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return s.respond(user)
}

// SignIn checks credentials and returns a session token.
func (s *Service) SignIn(ctx context.Context, req models.SignInRequest) (models.AuthResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return models.AuthResponse{}, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return models.AuthResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("login rejected", zap.String("user_id", user.ID))
		return models.AuthResponse{}, ErrInvalidCredentials
	}
	return s.respond(user)
}

// Authenticate resolves a bearer token into its claims.
func (s *Service) Authenticate(token string) (*Claims, error) {
	return s.tokens.Parse(token)
}

// Profile returns the account of userID.
func (s *Service) Profile(ctx context.Context, userID string) (models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("load profile: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of up.
func (s *Service) UpdateProfile(ctx context.Context, userID string, up models.ProfileUpdate) (models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if up.FullName != nil {
		name := strings.TrimSpace(*up.FullName)
		if name == "" {
			return models.User{}, fmt.Errorf("%w: full name is required", ErrInvalidInput)
		}
		user.FullName = name
	}
	if up.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*up.PhoneNumber)
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID string, req models.PasswordChange) error {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if err := checkPassword(req.NewPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}

func (s *Service) respond(user models.User) (models.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return models.AuthResponse{}, err
	}
	return models.AuthResponse{Token: token, User: user}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	return email, nil
}

func checkPassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	// bcrypt ignores everything past 72 bytes.
	if len(pw) > 72 {
		return fmt.Errorf("%w: password must be at most 72 bytes", ErrInvalidInput)
	}
	return nil
}
