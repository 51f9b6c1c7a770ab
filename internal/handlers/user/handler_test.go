package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	otelMocks "hotelbook/infras/otel/mocks"
	"hotelbook/internal/domains/user/mocks"
	"hotelbook/internal/domains/user/model/dto"
	userHandler "hotelbook/internal/handlers/user"
	gDto "hotelbook/shared/dto"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestGetUsers_Filters(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantCall   bool
		wantFilter []any
		wantStatus int
	}{
		{
			name:       "no filters",
			query:      "",
			wantCall:   true,
			wantStatus: http.StatusOK,
		},
		{
			name:     "email and level",
			query:    "?email=ivan&level=admin",
			wantCall: true,
			wantFilter: []any{
				gDto.Filter{Field: "email", Operator: gDto.FilterOperatorLike, Value: "ivan", Table: "users"},
				gDto.Filter{Field: "level", Operator: gDto.FilterOperatorEq, Value: "admin", Table: "users"},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:     "inactive accounts",
			query:    "?active=false",
			wantCall: true,
			wantFilter: []any{
				gDto.Filter{Field: "active", Operator: gDto.FilterOperatorEq, Value: false, Table: "users"},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown level",
			query:      "?level=owner",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "active is not a boolean",
			query:      "?active=maybe",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := mocks.NewMockUserService(ctrl)
			if tt.wantCall {
				svc.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error) {
						assert.Equal(t, gDto.FilterGroupOperatorAnd, filter.Operator)
						assert.Equal(t, tt.wantFilter, filter.Filters)

						return dto.GetUsersResponse{TotalPage: 1}, nil
					})
			}

			handler := userHandler.New(svc, otelMocks.NewOtel())
			router := chi.NewRouter()
			router.Route("/v1", handler.Router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/users/"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestDeleteUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockUserService(ctrl)
	svc.EXPECT().Delete(gomock.Any(), "u-1").Return(nil)

	handler := userHandler.New(svc, otelMocks.NewOtel())
	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/users/u-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User deleted successfully")
}
