package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotelbook/config"
	otelMocks "hotelbook/infras/otel/mocks"
	"hotelbook/shared/cache/mocks"
	"hotelbook/shared/constant"
	"hotelbook/transport/http/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		enable        bool
		headers       map[string]string
		setupMock     func(m *mocks.MockRedisCache)
		wantStatus    int
		wantRemaining string
	}{
		{
			name:       "disabled limiter never touches the cache",
			enable:     false,
			wantStatus: http.StatusOK,
		},
		{
			name:    "first request of the window",
			enable:  true,
			headers: map[string]string{constant.RequestHeaderForwardedFor: "10.0.0.1, 172.16.0.1", constant.RequestHeaderUserAgent: "curl"},
			setupMock: func(m *mocks.MockRedisCache) {
				m.EXPECT().Incr(gomock.Any(), "limiter:10.0.0.1:curl", 60).Return(int64(1), nil)
			},
			wantStatus:    http.StatusOK,
			wantRemaining: "2",
		},
		{
			name:    "last allowed request",
			enable:  true,
			headers: map[string]string{constant.RequestHeaderRealIP: "10.0.0.2"},
			setupMock: func(m *mocks.MockRedisCache) {
				m.EXPECT().Incr(gomock.Any(), "limiter:10.0.0.2:unknown", 60).Return(int64(3), nil)
			},
			wantStatus:    http.StatusOK,
			wantRemaining: "0",
		},
		{
			name:    "over the limit",
			enable:  true,
			headers: map[string]string{constant.RequestHeaderRealIP: "10.0.0.2"},
			setupMock: func(m *mocks.MockRedisCache) {
				m.EXPECT().Incr(gomock.Any(), "limiter:10.0.0.2:unknown", 60).Return(int64(4), nil)
			},
			wantStatus:    http.StatusTooManyRequests,
			wantRemaining: "0",
		},
		{
			name:   "cache failure lets the request through",
			enable: true,
			setupMock: func(m *mocks.MockRedisCache) {
				m.EXPECT().Incr(gomock.Any(), gomock.Any(), 60).Return(int64(0), errors.New("redis down"))
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			redisCache := mocks.NewMockRedisCache(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(redisCache)
			}

			cfg := &config.Config{}
			cfg.App.RateLimiter.Enable = tt.enable
			cfg.App.RateLimiter.MaxRequests = 3
			cfg.App.RateLimiter.WindowSeconds = 60

			limit := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, redisCache).RateLimit()
			handler := limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			request := httptest.NewRequest(http.MethodGet, "/v1/hotels/", nil)
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantRemaining, recorder.Header().Get(constant.RequestHeaderRateLimitRemaining))
		})
	}
}
