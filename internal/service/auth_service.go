package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/store"
)

// AuthService registers users, checks passwords and resolves tokens.
type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *auth.TokenManager
	hashCost int
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService hashing passwords with bcrypt.DefaultCost.
func NewAuthService(userRepo *repository.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
		logger:   logger,
	}
}

// WithHashCost sets the bcrypt cost used for new passwords.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

// Register creates a user and returns a token for it.
// Returns ErrDuplicateEntry when the username is taken.
func (s *AuthService) Register(ctx context.Context, username, password string) (model.Token, error) {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return model.Token{}, err
	}
	if !existing.IsZero() {
		return model.Token{}, fmt.Errorf("%w: username %s is already taken", apperrors.ErrDuplicateEntry, username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return model.Token{}, fmt.Errorf("failed to hash password: %w", err)
	}

	doc, err := store.Encode(model.UserDraft{Username: username, HashedPassword: string(hash)})
	if err != nil {
		return model.Token{}, err
	}
	user, err := s.userRepo.Create(ctx, doc)
	if err != nil {
		return model.Token{}, err
	}

	s.logger.Info("user registered", zap.String("id", user.ID), zap.String("username", user.Username))
	return s.issue(user)
}

// Authenticate checks a username and password and returns a token.
// Any mismatch is ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (model.Token, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return model.Token{}, err
	}
	if user.IsZero() {
		s.logger.Warn("login for unknown user", zap.String("username", username))
		return model.Token{}, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.Warn("login with wrong password", zap.String("username", username))
			return model.Token{}, apperrors.ErrInvalidCredentials
		}
		return model.Token{}, fmt.Errorf("failed to check password: %w", err)
	}

	return s.issue(user)
}

// VerifyToken returns the claims of a valid token or ErrInvalidToken.
func (s *AuthService) VerifyToken(token string) (*auth.Claims, error) {
	return s.tokens.Verify(token)
}

// Me returns the user a token was issued to. A valid token for a user that
// no longer exists is ErrInvalidToken.
func (s *AuthService) Me(ctx context.Context, token string) (model.UserResponse, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return model.UserResponse{}, err
	}
	user, err := s.userRepo.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidIdentifier) {
			return model.UserResponse{}, apperrors.ErrInvalidToken
		}
		return model.UserResponse{}, err
	}
	if user.IsZero() {
		return model.UserResponse{}, fmt.Errorf("%w: user no longer exists", apperrors.ErrInvalidToken)
	}
	return model.UserResponse{ID: user.ID, Username: user.Username}, nil
}

func (s *AuthService) issue(user model.User) (model.Token, error) {
	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return model.Token{}, err
	}
	return model.Token{AccessToken: token, TokenType: auth.TokenType}, nil
}
