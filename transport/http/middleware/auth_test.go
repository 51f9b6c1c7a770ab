package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hotelbook/config"
	"hotelbook/infras/jwt"
	jwtMocks "hotelbook/infras/jwt/mocks"
	otelMocks "hotelbook/infras/otel/mocks"
	"hotelbook/permissions"
	"hotelbook/shared/constant"
	"hotelbook/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testPermissions = `{
  "endpoints": [
    {"path": "/v1/hotels/", "method": "GET", "skip": true},
    {"path": "/v1/bookings/", "method": "POST", "permissions": ["superadmin", "admin", "user"]},
    {"path": "/v1/bookings/{id}", "method": "PATCH", "permissions": ["superadmin", "admin"]}
  ]
}`

func newRouter(t *testing.T, jwtService jwt.JWT) http.Handler {
	t.Helper()

	perms, err := permissions.Parse([]byte(testPermissions))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	mw := middleware.NewAuthRoleMiddleware(jwtService, otelMocks.NewOtel(), perms, cfg)

	echoUser := func(writer http.ResponseWriter, request *http.Request) {
		userID, _ := request.Context().Value(constant.ContextKeyUserID).(string)
		writer.Header().Set("X-User", userID)
		writer.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Use(mw.APIKey, mw.Auth, mw.RBAC)
	router.Route("/v1", func(r chi.Router) {
		r.Route("/hotels", func(r chi.Router) {
			r.Get("/", echoUser)
		})
		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", echoUser)
			r.Patch("/{id}", echoUser)
		})
	})

	return router
}

func TestAuthRole(t *testing.T) {
	guest := &jwt.Claims{UserID: "user-1", Email: "guest@hotel.test", Role: constant.RoleUser, TokenID: "t-1"}

	tests := []struct {
		name       string
		method     string
		path       string
		headers    map[string]string
		setupMock  func(m *jwtMocks.MockJWT)
		wantStatus int
		wantUser   string
	}{
		{
			name:       "public route without token",
			method:     http.MethodGet,
			path:       "/v1/hotels/",
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing authorization header",
			method:     http.MethodPost,
			path:       "/v1/bookings/",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "header without bearer prefix",
			method:     http.MethodPost,
			path:       "/v1/bookings/",
			headers:    map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "expired token",
			method:  http.MethodPost,
			path:    "/v1/bookings/",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer old"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "old", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "claims without email",
			method:  http.MethodPost,
			path:    "/v1/bookings/",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer partial"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "partial", jwt.AccessToken).Return(&jwt.Claims{UserID: "user-1"}, nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "guest books a room",
			method:  http.MethodPost,
			path:    "/v1/bookings/",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer good"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "good", jwt.AccessToken).Return(guest, nil)
			},
			wantStatus: http.StatusOK,
			wantUser:   "user-1",
		},
		{
			name:    "guest cannot edit bookings",
			method:  http.MethodPatch,
			path:    "/v1/bookings/b-1",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer good"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "good", jwt.AccessToken).Return(guest, nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:    "admin edits bookings",
			method:  http.MethodPatch,
			path:    "/v1/bookings/b-1",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer admin"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "admin", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "admin-1", Email: "admin@hotel.test", Role: constant.RoleAdmin}, nil)
			},
			wantStatus: http.StatusOK,
			wantUser:   "admin-1",
		},
		{
			name:       "internal api key bypasses auth",
			method:     http.MethodPatch,
			path:       "/v1/bookings/b-1",
			headers:    map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong api key",
			method:     http.MethodPatch,
			path:       "/v1/bookings/b-1",
			headers:    map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			jwtService := jwtMocks.NewMockJWT(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(jwtService)
			}

			request := httptest.NewRequest(tt.method, tt.path, nil)
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}

			recorder := httptest.NewRecorder()
			newRouter(t, jwtService).ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantUser, recorder.Header().Get("X-User"))
		})
	}
}

func TestRBAC_WithoutPermissions(t *testing.T) {
	mw := middleware.NewAuthRoleMiddleware(nil, otelMocks.NewOtel(), nil, &config.Config{})

	router := chi.NewRouter()
	router.Use(mw.RBAC)
	router.Get("/v1/bookings/me", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/bookings/me", nil))

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
