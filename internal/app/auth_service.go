package app

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"askhub/internal/model"
	"askhub/internal/pkg/jwtutil"
	"askhub/internal/repository"
)

type AuthService struct {
	userRepo      *repository.UserRepository
	jwtSecret     string
	accessExpire  time.Duration
	refreshExpire time.Duration
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

// AuthResult carries a fresh token pair. Access tokens authenticate API
// calls; the refresh token is only good for the refresh endpoint.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         *model.User
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, accessExpire, refreshExpire time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		accessExpire:  accessExpire,
		refreshExpire: refreshExpire,
	}
}

func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if username == "" || email == "" || password == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	existingByName, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existingByName != nil {
		return nil, ErrUsernameExists
	}

	existingByEmail, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existingByEmail != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	password := strings.TrimSpace(input.Password)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AuthService) Refresh(refreshToken string) (*AuthResult, error) {
	claims, err := jwtutil.ParseTokenOfType(s.jwtSecret, refreshToken, jwtutil.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	return s.issueTokens(user)
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.userRepo.GetByID(id)
}

func (s *AuthService) issueTokens(user *model.User) (*AuthResult, error) {
	access, err := jwtutil.GenerateToken(s.jwtSecret, s.accessExpire, jwtutil.TokenTypeAccess, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	refresh, err := jwtutil.GenerateToken(s.jwtSecret, s.refreshExpire, jwtutil.TokenTypeRefresh, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}
