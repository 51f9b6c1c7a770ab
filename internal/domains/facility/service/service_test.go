package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"hotelbook/config"
	otelMocks "hotelbook/infras/otel/mocks"
	facilityMocks "hotelbook/internal/domains/facility/mocks"
	"hotelbook/internal/domains/facility/model"
	"hotelbook/internal/domains/facility/model/dto"
	"hotelbook/internal/domains/facility/service"
	"hotelbook/shared/cache"
	cacheMocks "hotelbook/shared/cache/mocks"
	"hotelbook/shared/constant"
	gDto "hotelbook/shared/dto"
)

func TestFacilityService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := facilityMocks.NewMockFacility(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Clear(gomock.Any(), "facility:gets*").Return(nil).AnyTimes()

	svc := service.New(mockRepo, &config.Config{}, mockCache, otelMocks.NewOtel())

	tests := []struct {
		name      string
		setupMock func()
		wantErr   error
		anyErr    bool
	}{
		{
			name: "successful creation",
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, facility model.Facility) error {
						assert.Equal(t, "Wi-Fi", facility.Title)

						return nil
					})
			},
		},
		{
			name: "duplicate title",
			setupMock: func() {
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantErr: service.ErrFacilityTitleExists,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Create(context.Background(), dto.CreateFacilityRequest{Title: "Wi-Fi"})

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}

	time.Sleep(10 * time.Millisecond)
}

func TestFacilityService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := facilityMocks.NewMockFacility(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, &config.Config{}, mockCache, otelMocks.NewOtel())
	params := gDto.QueryParams{Page: 1, Limit: 2}

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	mockRepo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Facility{
		{ID: "f-1", Title: "Wi-Fi"},
		{ID: "f-2", Title: "Pool"},
	}, nil)

	res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Equal(t, "Pool", res.Facilities[1].Title)

	time.Sleep(10 * time.Millisecond)
}
