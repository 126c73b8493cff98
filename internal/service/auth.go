package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aman-churiwal/root-panel/internal/models"
	"github.com/aman-churiwal/root-panel/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthService struct {
	repo      *repository.RootRepository
	jwtSecret []byte // Stored in env (JWT_SECRET)
	jwtExpiry time.Duration
	now       func() time.Time
}

func NewAuthService(repo *repository.RootRepository, secret string, expiryHours int) *AuthService {
	return &AuthService{
		repo:      repo,
		jwtSecret: []byte(secret),
		jwtExpiry: time.Duration(expiryHours) * time.Hour,
		now:       time.Now,
	}
}

// Reports whether the single root account has been registered
func (s *AuthService) RootExists(ctx context.Context) (bool, error) {
	return s.repo.Exists(ctx)
}

// Creates the root account and returns a token for it. Only one root may
// ever be registered.
func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	verr := &ValidationError{}
	if email == "" || !strings.Contains(email, "@") {
		verr.add("email", "a valid email is required")
	}
	if len(password) < minPasswordLength {
		verr.add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if err := verr.orNil(); err != nil {
		return "", err
	}

	exists, err := s.repo.Exists(ctx)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrRootExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	root := &models.Root{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	created, err := s.repo.CreateFirst(ctx, root)
	if err != nil {
		return "", err
	}
	if !created {
		return "", ErrRootExists
	}

	return s.issueToken(root)
}

// Authenticates the root and returns a JWT token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	root, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	if root == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(root.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.issueToken(root)
}

func (s *AuthService) issueToken(root *models.Root) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"root_id": root.ID.String(),
		"email":   root.Email,
		"exp":     now.Add(s.jwtExpiry).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// Validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Verifying signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if _, ok := claims["root_id"].(string); !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Retrieves a root by ID
func (s *AuthService) GetRootByID(ctx context.Context, id string) (*models.Root, error) {
	return s.repo.FindByID(ctx, id)
}
