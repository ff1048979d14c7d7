package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/infrastructure/auth"
	"github.com/billmaster/backend/internal/infrastructure/logger"
	"github.com/billmaster/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(raw string) (identity.Actor, *auth.Claims, error) {
	args := m.Called(raw)
	var claims *auth.Claims
	if c := args.Get(1); c != nil {
		claims = c.(*auth.Claims)
	}
	return args.Get(0).(identity.Actor), claims, args.Error(2)
}

func newAuthRouter(v ActorVerifier) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Authenticate(v, nil))
	r.GET("/me", func(c *gin.Context) {
		actor, ok := GetActor(c)
		ctxActor, ctxOK := logger.GetActor(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"email":     actor.Email,
			"role":      actor.Role,
			"found":     ok,
			"ctx_found": ctxOK && ctxActor.Email == actor.Email,
		})
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	admin := identity.Actor{Email: "owner@shop.in", Name: "Ravi", Role: identity.RoleAdmin}

	t.Run("valid token exposes the actor", func(t *testing.T) {
		v := new(mockVerifier)
		v.On("Verify", "good").Return(admin, &auth.Claims{Email: admin.Email}, nil)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		newAuthRouter(v).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "owner@shop.in", body["email"])
		assert.Equal(t, "admin", body["role"])
		assert.Equal(t, true, body["found"])
		assert.Equal(t, true, body["ctx_found"])
		v.AssertExpectations(t)
	})

	tests := []struct {
		name    string
		header  string
		verr    error
		message string
	}{
		{"missing header", "", nil, "Authorization header is required"},
		{"wrong scheme", "Basic abc", nil, "Authorization header is required"},
		{"expired", "Bearer old", auth.ErrExpiredToken, "Token has expired"},
		{"bad claims", "Bearer odd", fmt.Errorf("%w: role", auth.ErrInvalidClaims), "Token claims are invalid"},
		{"bad signature", "Bearer forged", fmt.Errorf("%w: signature", auth.ErrInvalidToken), "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := new(mockVerifier)
			if tt.verr != nil {
				v.On("Verify", mock.Anything).Return(identity.Actor{}, nil, tt.verr)
			}

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newAuthRouter(v).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
			assert.NotEmpty(t, resp.Error.RequestID)
			if tt.verr == nil {
				v.AssertNotCalled(t, "Verify", mock.Anything)
			}
		})
	}
}

func TestGetActor_Absent(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetActor(c)
	assert.False(t, ok)
}
