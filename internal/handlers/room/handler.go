package room

import (
	"net/http"

	"hotelbook/infras/otel"
	availabilityModel "hotelbook/internal/domains/availability/model"
	"hotelbook/internal/domains/room/model"
	"hotelbook/internal/domains/room/model/dto"
	"hotelbook/internal/domains/room/service"
	"hotelbook/shared/constant"
	gDto "hotelbook/shared/dto"
	"hotelbook/shared/validator"
	"hotelbook/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Room
	otel    otel.Otel
}

func New(service service.Room, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/hotels/{hotel_id}/rooms", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRoom)
		routerGroup.Get("/", handler.GetRooms)
		routerGroup.Get("/{id}", handler.GetRoomByID)
		routerGroup.Patch("/{id}", handler.UpdateRoom)
		routerGroup.Delete("/{id}", handler.DeleteRoom)
	})
}

// CreateRoom adds a room type to a hotel.
// @Summary Create a room
// @Tags Room
// @Accept json
// @Produce json
// @Param hotel_id path string true "Hotel ID"
// @Param request body dto.CreateRoomRequest true "Room"
// @Success 201 {object} response.Message "Room created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hotels/{hotel_id}/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	req := dto.CreateRoomRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request")

		return
	}

	if err := handler.service.Create(ctx, chi.URLParam(r, constant.RequestParamHotelID), req); err != nil {
		response.Fail(w, scope, err, "failed to create room")

		return
	}

	response.WithMessage(w, http.StatusCreated, "Room created successfully")
}

// GetRooms lists the rooms of a hotel. With date_from and date_to it lists
// only the rooms still free for the stay, with the number of units left.
// @Summary Get rooms of a hotel
// @Tags Room
// @Produce json
// @Param hotel_id path string true "Hotel ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param title query string false "Filter by title"
// @Param date_from query string false "Check-in date (YYYY-MM-DD)"
// @Param date_to query string false "Check-out date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetRoomsResponse] "List of rooms"
// @Success 200 {object} response.Data[[]dto.AvailableRoomResponse] "Available rooms"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hotels/{hotel_id}/rooms [get]
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	hotelID := chi.URLParam(r, constant.RequestParamHotelID)
	query := r.URL.Query()

	dateFrom, dateTo := query.Get(constant.RequestParamDateFrom), query.Get(constant.RequestParamDateTo)
	if dateFrom != constant.Empty || dateTo != constant.Empty {
		handler.getAvailableRooms(w, r, hotelID, dateFrom, dateTo)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	if title := query.Get(model.FieldTitle); title != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldTitle,
			Operator: gDto.FilterOperatorLike,
			Value:    title,
			Table:    model.TableName,
		})
	}

	rooms, err := handler.service.GetAll(ctx, hotelID, queryParams, filterGroup)
	if err != nil {
		response.Fail(w, scope, err, "failed to get rooms")

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

func (handler *Handler) getAvailableRooms(w http.ResponseWriter, r *http.Request, hotelID, dateFrom, dateTo string) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".getAvailableRooms")
	defer scope.End()

	window, err := availabilityModel.ParseWindow(dateFrom, dateTo)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	rooms, err := handler.service.GetAvailable(ctx, hotelID, window)
	if err != nil {
		response.Fail(w, scope, err, "failed to get available rooms")

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetRoomByID retrieves a room of a hotel.
// @Summary Get a room by ID
// @Tags Room
// @Produce json
// @Param hotel_id path string true "Hotel ID"
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse] "Room details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hotels/{hotel_id}/rooms/{id} [get]
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByID")
	defer scope.End()

	room, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamHotelID), chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.Fail(w, scope, err, "failed to get room by ID")

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// UpdateRoom partially updates a room.
// @Summary Update a room
// @Tags Room
// @Accept json
// @Produce json
// @Param hotel_id path string true "Hotel ID"
// @Param id path string true "Room ID"
// @Param request body dto.UpdateRoomRequest true "Fields to change"
// @Success 200 {object} response.Message "Room updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hotels/{hotel_id}/rooms/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoom")
	defer scope.End()

	req := dto.UpdateRoomRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request")

		return
	}

	err := handler.service.Update(ctx, chi.URLParam(r, constant.RequestParamHotelID), chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		response.Fail(w, scope, err, "failed to update room")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Room updated successfully")
}

// DeleteRoom deletes a room and its bookings.
// @Summary Delete a room
// @Tags Room
// @Produce json
// @Param hotel_id path string true "Hotel ID"
// @Param id path string true "Room ID"
// @Success 200 {object} response.Message "Room deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hotels/{hotel_id}/rooms/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoom")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamHotelID), chi.URLParam(r, constant.RequestParamID)); err != nil {
		response.Fail(w, scope, err, "failed to delete room")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Room deleted successfully")
}
