package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"hotelbook/config"
	otelMocks "hotelbook/infras/otel/mocks"
	s3Mocks "hotelbook/infras/s3/mocks"
	availabilityMocks "hotelbook/internal/domains/availability/mocks"
	availabilityModel "hotelbook/internal/domains/availability/model"
	hotelMocks "hotelbook/internal/domains/hotel/mocks"
	"hotelbook/internal/domains/hotel/model"
	"hotelbook/internal/domains/hotel/model/dto"
	"hotelbook/internal/domains/hotel/service"
	"hotelbook/shared/cache"
	cacheMocks "hotelbook/shared/cache/mocks"
	"hotelbook/shared/constant"
	gDto "hotelbook/shared/dto"
	"hotelbook/shared/failure"
)

type fixture struct {
	svc          service.Hotel
	repo         *hotelMocks.MockHotel
	availability *availabilityMocks.MockAvailabilityService
	cache        *cacheMocks.MockRedisCache
	s3           *s3Mocks.MockS3
}

func newFixture(ctrl *gomock.Controller) fixture {
	f := fixture{
		repo:         hotelMocks.NewMockHotel(ctrl),
		availability: availabilityMocks.NewMockAvailabilityService(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
		s3:           s3Mocks.NewMockS3(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.availability, cfg, f.cache, otelMocks.NewOtel(), f.s3)

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Incr(gomock.Any(), "availability_generation", gomock.Any()).Return(int64(1), nil).AnyTimes()

	return f
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
}

func TestHotelService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)

	tests := []struct {
		name      string
		req       dto.CreateHotelRequest
		setupMock func()
		wantCode  int
		wantErr   bool
	}{
		{
			name: "without image",
			req:  dto.CreateHotelRequest{Title: "Altai Resort", Location: "Gorno-Altaysk"},
			setupMock: func() {
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, hotel model.Hotel) error {
						assert.Equal(t, "Altai Resort", hotel.Title)
						assert.Equal(t, "admin-id", hotel.CreatedBy)
						assert.Empty(t, hotel.Image)

						return nil
					})
			},
		},
		{
			name: "with image",
			req: dto.CreateHotelRequest{
				Title:    "Sochi Palace",
				Location: "Sochi",
				Image:    &multipart.FileHeader{Filename: "cover.png"},
			},
			setupMock: func() {
				f.s3.EXPECT().
					UploadFile(gomock.Any(), model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/hotel/cover.png", nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, hotel model.Hotel) error {
						assert.Equal(t, "https://cdn.example.com/hotel/cover.png", hotel.Image)

						return nil
					})
			},
		},
		{
			name: "duplicate title",
			req:  dto.CreateHotelRequest{Title: "Altai Resort", Location: "Gorno-Altaysk"},
			setupMock: func() {
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "upload error",
			req: dto.CreateHotelRequest{
				Title:    "Sochi Palace",
				Location: "Sochi",
				Image:    &multipart.FileHeader{Filename: "cover.png"},
			},
			setupMock: func() {
				f.s3.EXPECT().
					UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("bucket unavailable"))
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := f.svc.Create(userContext(), tt.req)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}

	time.Sleep(10 * time.Millisecond)
}

func TestHotelService_GetAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)
	window, _ := availabilityModel.ParseWindow("2024-03-01", "2024-03-05")
	params := gDto.QueryParams{Page: 1, Limit: 10}

	t.Run("no hotel has a free room", func(t *testing.T) {
		f.availability.EXPECT().AvailableHotelIDs(gomock.Any(), window).Return([]string{}, nil)

		res, err := f.svc.GetAvailable(context.Background(), params, gDto.FilterGroup{}, window)

		assert.NoError(t, err)
		assert.Empty(t, res.Hotels)
		assert.Equal(t, 0, res.TotalData)
		assert.Equal(t, 1, res.TotalPage)
	})

	t.Run("restricts the listing to available hotels", func(t *testing.T) {
		f.availability.EXPECT().AvailableHotelIDs(gomock.Any(), window).Return([]string{"hotel-1"}, nil)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)

		isRestricted := func(filter gDto.FilterGroup) bool {
			where, args := filter.GetWhereClause()

			return assert.Contains(t, where, "hotels.id IN") && assert.Equal(t, "hotel-1", args["id_0"])
		}

		f.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				isRestricted(filter)

				return 1, nil
			})
		f.repo.EXPECT().
			GetAll(gomock.Any(), params, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Hotel, error) {
				isRestricted(filter)

				return []model.Hotel{{ID: "hotel-1", Title: "Altai Resort"}}, nil
			})

		res, err := f.svc.GetAvailable(context.Background(), params, gDto.FilterGroup{}, window)

		assert.NoError(t, err)
		assert.Len(t, res.Hotels, 1)
		assert.Equal(t, "hotel-1", res.Hotels[0].ID)
	})

	t.Run("availability error", func(t *testing.T) {
		f.availability.EXPECT().AvailableHotelIDs(gomock.Any(), window).Return(nil, errors.New("timeout"))

		_, err := f.svc.GetAvailable(context.Background(), params, gDto.FilterGroup{}, window)

		assert.Error(t, err)
	})

	time.Sleep(10 * time.Millisecond)
}

func TestHotelService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   error
	}{
		{
			name: "found",
			setupMock: func() {
				f.cache.EXPECT().Get(gomock.Any(), "hotel:get:hotel-1", gomock.Any()).Return(cache.Nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Hotel{ID: "hotel-1", Title: "Altai Resort"}, nil)
			},
		},
		{
			name: "not found",
			setupMock: func() {
				f.cache.EXPECT().Get(gomock.Any(), "hotel:get:hotel-1", gomock.Any()).Return(cache.Nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Hotel{}, nil)
			},
			wantErr: service.ErrHotelNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := f.svc.Get(context.Background(), "hotel-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "hotel-1", res.ID)
		})
	}

	time.Sleep(10 * time.Millisecond)
}

func TestHotelService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)

	tests := []struct {
		name      string
		req       dto.UpdateHotelRequest
		setupMock func()
		wantCode  int
		wantErr   bool
	}{
		{
			name: "partial update",
			req:  dto.UpdateHotelRequest{Location: "Sochi"},
			setupMock: func() {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Hotel{ID: "hotel-1"}, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "Sochi", fields[model.FieldLocation])
						assert.NotContains(t, fields, model.FieldTitle)

						return nil
					})
			},
		},
		{
			name: "new image replaces the old one",
			req:  dto.UpdateHotelRequest{Image: &multipart.FileHeader{Filename: "new.jpg"}},
			setupMock: func() {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Hotel{ID: "hotel-1", Image: "https://cdn.example.com/hotel/old.jpg"}, nil)
				f.s3.EXPECT().UploadFile(gomock.Any(), model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn.example.com/hotel/new.jpg", nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.s3.EXPECT().DeleteByURL(gomock.Any(), "https://cdn.example.com/hotel/old.jpg").Return(nil)
			},
		},
		{
			name: "not found",
			req:  dto.UpdateHotelRequest{Title: "New"},
			setupMock: func() {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Hotel{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "duplicate title",
			req:  dto.UpdateHotelRequest{Title: "Taken"},
			setupMock: func() {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Hotel{ID: "hotel-1"}, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := f.svc.Update(userContext(), tt.req, "hotel-1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestHotelService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)

	t.Run("not found", func(t *testing.T) {
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Hotel{}, nil)

		err := f.svc.Delete(context.Background(), "hotel-1")

		assert.ErrorIs(t, err, service.ErrHotelNotFound)
	})

	t.Run("deletes and clears availability", func(t *testing.T) {
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Hotel{ID: "hotel-1"}, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		err := f.svc.Delete(context.Background(), "hotel-1")

		assert.NoError(t, err)
	})

	t.Run("repository error", func(t *testing.T) {
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Hotel{ID: "hotel-1"}, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

		err := f.svc.Delete(context.Background(), "hotel-1")

		assert.Error(t, err)
	})

	time.Sleep(10 * time.Millisecond)
}
