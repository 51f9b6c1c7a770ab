package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"hotelbook/config"
	otelMocks "hotelbook/infras/otel/mocks"
	availabilityMocks "hotelbook/internal/domains/availability/mocks"
	availabilityModel "hotelbook/internal/domains/availability/model"
	hotelMocks "hotelbook/internal/domains/hotel/mocks"
	roomMocks "hotelbook/internal/domains/room/mocks"
	"hotelbook/internal/domains/room/model"
	"hotelbook/internal/domains/room/model/dto"
	"hotelbook/internal/domains/room/service"
	"hotelbook/shared/cache"
	cacheMocks "hotelbook/shared/cache/mocks"
	"hotelbook/shared/constant"
	gDto "hotelbook/shared/dto"
	"hotelbook/shared/failure"
)

type fixture struct {
	svc          service.Room
	repo         *roomMocks.MockRoom
	hotelRepo    *hotelMocks.MockHotel
	availability *availabilityMocks.MockAvailabilityService
	cache        *cacheMocks.MockRedisCache
}

func newFixture(ctrl *gomock.Controller) fixture {
	f := fixture{
		repo:         roomMocks.NewMockRoom(ctrl),
		hotelRepo:    hotelMocks.NewMockHotel(ctrl),
		availability: availabilityMocks.NewMockAvailabilityService(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.hotelRepo, f.availability, cfg, f.cache, otelMocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Incr(gomock.Any(), "availability_generation", gomock.Any()).Return(int64(1), nil).AnyTimes()

	return f
}

func ptr[T any](v T) *T {
	return &v
}

func TestRoomService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)
	req := dto.CreateRoomRequest{Title: "Standard", Price: ptr(int64(5000)), Quantity: ptr(3)}

	tests := []struct {
		name      string
		setupMock func()
		wantCode  int
		wantErr   bool
	}{
		{
			name: "created under the hotel",
			setupMock: func() {
				f.hotelRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, "hotel-1", room.HotelID)
						assert.Equal(t, int64(5000), room.Price)
						assert.Equal(t, 3, room.Quantity)
						assert.NotEmpty(t, room.ID)

						return nil
					})
			},
		},
		{
			name: "hotel missing",
			setupMock: func() {
				f.hotelRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "duplicate title in hotel",
			setupMock: func() {
				f.hotelRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "storage error",
			setupMock: func() {
				f.hotelRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("connection refused"))
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := f.svc.Create(context.Background(), "hotel-1", req)
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

func TestRoomService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)
	params := gDto.QueryParams{Page: 1, Limit: 10}

	f.hotelRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), params, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Room, error) {
			where, args := filter.GetWhereClause()

			assert.Contains(t, where, "rooms.hotel_id = :hotel_id")
			assert.Equal(t, "hotel-1", args["hotel_id"])

			return []model.Room{
				{ID: "room-1", HotelID: "hotel-1", Title: "Standard", Price: 5000, Quantity: 3},
				{ID: "room-2", HotelID: "hotel-1", Title: "Suite", Price: 12000, Quantity: 1},
			}, nil
		})

	res, err := f.svc.GetAll(context.Background(), "hotel-1", params, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
	assert.Len(t, res.Rooms, 2)

	time.Sleep(10 * time.Millisecond)
}

func TestRoomService_GetAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)
	window, _ := availabilityModel.ParseWindow("2024-03-01", "2024-03-05")

	t.Run("reports rooms left", func(t *testing.T) {
		f.hotelRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.availability.EXPECT().AvailableRooms(gomock.Any(), "hotel-1", window).Return([]availabilityModel.RoomLeft{
			{RoomID: "room-1", HotelID: "hotel-1", Quantity: 3, Reserved: 1, RoomsLeft: 2},
		}, nil)
		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Room{{ID: "room-1", HotelID: "hotel-1", Title: "Standard", Quantity: 3}}, nil)

		res, err := f.svc.GetAvailable(context.Background(), "hotel-1", window)

		assert.NoError(t, err)
		assert.Len(t, res, 1)
		assert.Equal(t, "room-1", res[0].ID)
		assert.Equal(t, 2, res[0].RoomsLeft)
	})

	t.Run("fully booked hotel", func(t *testing.T) {
		f.hotelRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.availability.EXPECT().AvailableRooms(gomock.Any(), "hotel-1", window).Return([]availabilityModel.RoomLeft{}, nil)

		res, err := f.svc.GetAvailable(context.Background(), "hotel-1", window)

		assert.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("hotel missing", func(t *testing.T) {
		f.hotelRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.svc.GetAvailable(context.Background(), "hotel-1", window)

		assert.ErrorIs(t, err, service.ErrHotelNotFound)
	})
}

func TestRoomService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)

	f.cache.EXPECT().Get(gomock.Any(), "room:get:hotel-1:room-1", gomock.Any()).Return(cache.Nil).Times(2)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "room-1", HotelID: "hotel-1", Price: 5000}, nil)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

	res, err := f.svc.Get(context.Background(), "hotel-1", "room-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(5000), res.Price)

	_, err = f.svc.Get(context.Background(), "hotel-1", "room-1")
	assert.ErrorIs(t, err, service.ErrRoomNotFound)

	time.Sleep(10 * time.Millisecond)
}

func TestRoomService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)

	tests := []struct {
		name      string
		req       dto.UpdateRoomRequest
		setupMock func()
		wantErr   error
	}{
		{
			name: "quantity can be set to zero",
			req:  dto.UpdateRoomRequest{Quantity: ptr(0)},
			setupMock: func() {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, ptr(0), fields[model.FieldQuantity])
						assert.NotContains(t, fields, model.FieldPrice)

						return nil
					})
			},
		},
		{
			name: "room missing",
			req:  dto.UpdateRoomRequest{Title: "Deluxe"},
			setupMock: func() {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr: service.ErrRoomNotFound,
		},
		{
			name: "duplicate title",
			req:  dto.UpdateRoomRequest{Title: "Suite"},
			setupMock: func() {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantErr: service.ErrRoomTitleExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := f.svc.Update(context.Background(), "hotel-1", "room-1", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}

	time.Sleep(10 * time.Millisecond)
}

func TestRoomService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
	assert.ErrorIs(t, f.svc.Delete(context.Background(), "hotel-1", "room-1"), service.ErrRoomNotFound)

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
	assert.NoError(t, f.svc.Delete(context.Background(), "hotel-1", "room-1"))

	time.Sleep(10 * time.Millisecond)
}
