package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gearguard-backend/internal/config"
	"gearguard-backend/internal/database/models"
	apperrors "gearguard-backend/internal/errors"
	"gearguard-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	user *models.User
	err  error
}

func (s stubAuthenticator) Authenticate(email, password string) (*models.User, error) {
	return s.user, s.err
}

func testUser() *models.User {
	return &models.User{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      "Tina Tech",
		Email:     "tina@example.com",
		Active:    true,
	}
}

func newTestService(t *testing.T, users Authenticator) *AuthService {
	t.Helper()
	service, err := NewAuthService(&AuthConfig{
		JWTSecret: "test-signing-key",
		TokenTTL:  time.Hour,
		Issuer:    "gearguard-backend",
	}, users)
	require.NoError(t, err)
	return service
}

func TestAuthConfig(t *testing.T) {
	t.Run("derived from application config", func(t *testing.T) {
		cfg := NewAuthConfig(&config.Config{JWTSecret: "s", JWTTTLMinutes: 30})
		assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
		assert.NoError(t, cfg.ValidateConfig())
	})

	t.Run("non-positive ttl falls back to default", func(t *testing.T) {
		cfg := NewAuthConfig(&config.Config{JWTSecret: "s"})
		assert.Equal(t, defaultTokenTTL, cfg.TokenTTL)
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := &AuthConfig{TokenTTL: time.Hour}
		err := cfg.ValidateConfig()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "JWT secret is required")

		_, err = NewAuthService(cfg, nil)
		assert.Error(t, err)
	})
}

func TestJWTOperations(t *testing.T) {
	user := testUser()
	service := newTestService(t, nil)

	token, err := service.GenerateJWT(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, user.Email, claims.Email)

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.ValidateJWT("invalid-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		service.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { service.now = time.Now }()
		_, err := service.ValidateJWT(token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewAuthService(&AuthConfig{JWTSecret: "other-key", TokenTTL: time.Hour, Issuer: "gearguard-backend"}, nil)
		require.NoError(t, err)
		_, err = other.ValidateJWT(token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &AuthClaims{UserID: user.ID}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = service.ValidateJWT(unsigned)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestLogin(t *testing.T) {
	user := testUser()

	resp, err := newTestService(t, stubAuthenticator{user: user}).Login("tina@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, user.ID, resp.Profile.ID)

	_, err = newTestService(t, stubAuthenticator{err: apperrors.ErrInvalidCredentials}).Login("tina@example.com", "nope")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		users      stubAuthenticator
		body       string
		wantStatus int
	}{
		{name: "valid credentials", users: stubAuthenticator{user: testUser()}, body: `{"email":"tina@example.com","password":"s3cret-pass"}`, wantStatus: http.StatusOK},
		{name: "missing password", users: stubAuthenticator{user: testUser()}, body: `{"email":"tina@example.com"}`, wantStatus: http.StatusBadRequest},
		{name: "wrong password", users: stubAuthenticator{err: apperrors.ErrInvalidCredentials}, body: `{"email":"tina@example.com","password":"x"}`, wantStatus: http.StatusUnauthorized},
		{name: "inactive user", users: stubAuthenticator{err: apperrors.ErrInactiveUser}, body: `{"email":"tina@example.com","password":"x"}`, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(newTestService(t, tt.users))
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			handler.Login(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var resp LoginResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.AccessToken)
			}
		})
	}
}

func TestValidateTokenHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := newTestService(t, nil)
	handler := NewAuthHandler(service)
	token, err := service.GenerateJWT(testUser())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/validate", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)
	handler.ValidateToken(c)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/validate", nil)
	c.Request.Header.Set("Authorization", "Token "+token)
	handler.ValidateToken(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := testUser()
	service := newTestService(t, nil)
	token, err := service.GenerateJWT(user)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/protected", NewAuthMiddleware(service).RequireAuth(), func(c *gin.Context) {
		id, ok := GetUserID(c)
		require.True(t, ok)
		email, _ := GetUserEmail(c)
		claims, _ := GetAuthClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id": id.String(),
			"email":   email,
			"name":    claims.Name,
			"actor":   c.Request.Context().Value(logger.ActorKey),
		})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, wantStatus: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, user.ID.String(), body["user_id"])
				assert.Equal(t, user.ID.String(), body["actor"])
				assert.Equal(t, "tina@example.com", body["email"])
				assert.Equal(t, "Tina Tech", body["name"])
			}
		})
	}
}
