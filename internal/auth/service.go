package auth

import (
	"fmt"
	"time"

	"gearguard-backend/internal/database/models"
	apperrors "gearguard-backend/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Authenticator checks user credentials
type Authenticator interface {
	Authenticate(email, password string) (*models.User, error)
}

// AuthService issues and validates access tokens for local users
type AuthService struct {
	config *AuthConfig
	users  Authenticator
	now    func() time.Time
}

// AuthClaims represents JWT token claims
type AuthClaims struct {
	UserID uuid.UUID `json:"user_id" example:"3f1c2b9e-8d7a-4c6b-9e5f-1a2b3c4d5e6f"`
	Email  string    `json:"email" example:"tina@example.com"`
	Name   string    `json:"name" example:"Tina Tech"`
	jwt.RegisteredClaims `swaggerignore:"true"`
}

// LoginRequest carries the credentials of a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"tina@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// LoginResponse represents the response of the login endpoint
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64        `json:"expiresIn" example:"28800"`
	Profile     *models.User `json:"profile"`
}

// AuthValidateResponse represents the response from the token validation endpoint
type AuthValidateResponse struct {
	Valid  bool        `json:"valid" example:"true"`
	Claims *AuthClaims `json:"claims"`
}

// NewAuthService creates a new authentication service
func NewAuthService(config *AuthConfig, users Authenticator) (*AuthService, error) {
	if err := config.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}
	return &AuthService{config: config, users: users, now: time.Now}, nil
}

// Login authenticates the user and issues an access token
func (s *AuthService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.users.Authenticate(email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JWT: %w", err)
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.TokenTTL.Seconds()),
		Profile:     user,
	}, nil
}

// GenerateJWT creates a signed HS256 token whose subject is the user id
func (s *AuthService) GenerateJWT(user *models.User) (string, error) {
	now := s.now()
	claims := &AuthClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// ValidateJWT validates and parses a token. Every failure maps to ErrInvalidToken.
func (s *AuthService) ValidateJWT(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(s.config.Issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
