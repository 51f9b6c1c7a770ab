package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"hotelbook/infras/otel"
	"hotelbook/infras/postgres"
	"hotelbook/internal/domains/availability/model"
	"hotelbook/shared/constant"
	"hotelbook/shared/logger"

	"github.com/jmoiron/sqlx"
)

// overlapCondition is the half-open interval test: a stay [date_from, date_to)
// overlaps the window when it starts before the window ends and ends after it starts.
const overlapCondition = `b.date_from < CAST(:date_to AS DATE) AND b.date_to > CAST(:date_from AS DATE)`

const excludeCondition = ` AND b.id <> :exclude_booking_id`

const reservedCountQuery = `SELECT COUNT(b.id) FROM bookings b WHERE b.room_id = :room_id AND ` + overlapCondition + `%s`

// roomsLeftCTE takes the booking scope, the exclude condition and the rooms scope.
// Both scans stay inside the rooms the caller asks about so a serializable
// transaction only takes predicate locks on those rooms.
const roomsLeftCTE = `WITH rooms_count AS (
	SELECT b.room_id, COUNT(b.id) AS reserved
	FROM bookings b
	WHERE ` + overlapCondition + `%s%s
	GROUP BY b.room_id
), rooms_left AS (
	SELECT r.id AS room_id, r.hotel_id, r.quantity,
		COALESCE(rc.reserved, 0) AS reserved,
		r.quantity - COALESCE(rc.reserved, 0) AS rooms_left
	FROM rooms r
	LEFT JOIN rooms_count rc ON rc.room_id = r.id%s
) `

const (
	roomLeftSelect       = `SELECT room_id, hotel_id, quantity, reserved, rooms_left FROM rooms_left`
	availableRoomsSelect = `SELECT room_id, hotel_id, quantity, reserved, rooms_left FROM rooms_left WHERE rooms_left > 0 ORDER BY room_id`
	availableHotelSelect = `SELECT DISTINCT hotel_id FROM rooms_left WHERE rooms_left > 0 ORDER BY hotel_id`
)

type roomScope struct {
	bookings string
	rooms    string
}

var (
	everyRoom  = roomScope{}
	singleRoom = roomScope{
		bookings: ` AND b.room_id = :room_id`,
		rooms:    ` WHERE r.id = :room_id`,
	}
	hotelRooms = roomScope{
		bookings: ` AND b.room_id IN (SELECT id FROM rooms WHERE hotel_id = :hotel_id)`,
		rooms:    ` WHERE r.hotel_id = :hotel_id`,
	}
)

type Availability interface {
	ReservedCount(ctx context.Context, roomID string, window model.Window) (int, error)
	// RoomLeft returns a zero RoomLeft when the room does not exist.
	RoomLeft(ctx context.Context, roomID string, window model.Window) (model.RoomLeft, error)
	RoomLeftTx(ctx context.Context, sqltx *sqlx.Tx, roomID string, window model.Window, excludeBookingID string) (model.RoomLeft, error)
	// AvailableRooms lists rooms with at least one unit left. An empty hotelID means every hotel.
	AvailableRooms(ctx context.Context, hotelID string, window model.Window) ([]model.RoomLeft, error)
	AvailableHotelIDs(ctx context.Context, window model.Window) ([]string, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Availability {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func windowArgs(window model.Window, excludeBookingID string) (map[string]any, string) {
	args := map[string]any{
		"date_from": window.FromString(),
		"date_to":   window.ToString(),
	}

	if excludeBookingID == constant.Empty {
		return args, constant.Empty
	}

	args["exclude_booking_id"] = excludeBookingID

	return args, excludeCondition
}

func roomsLeftQuery(scope roomScope, exclude, selectClause string) string {
	return fmt.Sprintf(roomsLeftCTE, scope.bookings, exclude, scope.rooms) + selectClause
}

func buildReservedCount(roomID string, window model.Window) (string, map[string]any) {
	args, exclude := windowArgs(window, constant.Empty)
	args[model.FieldRoomID] = roomID

	return fmt.Sprintf(reservedCountQuery, exclude), args
}

func buildRoomLeft(roomID string, window model.Window, excludeBookingID string) (string, map[string]any) {
	args, exclude := windowArgs(window, excludeBookingID)
	args[model.FieldRoomID] = roomID

	return roomsLeftQuery(singleRoom, exclude, roomLeftSelect), args
}

func buildAvailableRooms(hotelID string, window model.Window) (string, map[string]any) {
	args, exclude := windowArgs(window, constant.Empty)

	if hotelID == constant.Empty {
		return roomsLeftQuery(everyRoom, exclude, availableRoomsSelect), args
	}

	args[model.FieldHotelID] = hotelID

	return roomsLeftQuery(hotelRooms, exclude, availableRoomsSelect), args
}

func buildAvailableHotelIDs(window model.Window) (string, map[string]any) {
	args, exclude := windowArgs(window, constant.Empty)

	return roomsLeftQuery(everyRoom, exclude, availableHotelSelect), args
}

func (repo *repositoryImpl) ReservedCount(ctx context.Context, roomID string, window model.Window) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability.ReservedCount")
	defer scope.End()

	query, args := buildReservedCount(roomID, window)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var count int

	if err := repo.get(ctx, repo.db.Read, &count, query, args); err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count reserved rooms: %w", err)
	}

	return count, nil
}

func (repo *repositoryImpl) RoomLeft(ctx context.Context, roomID string, window model.Window) (model.RoomLeft, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability.RoomLeft")
	defer scope.End()

	return repo.roomLeft(ctx, repo.db.Read, roomID, window, constant.Empty)
}

func (repo *repositoryImpl) RoomLeftTx(ctx context.Context, sqltx *sqlx.Tx, roomID string, window model.Window, excludeBookingID string) (model.RoomLeft, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability.RoomLeftTx")
	defer scope.End()

	return repo.roomLeft(ctx, sqltx, roomID, window, excludeBookingID)
}

func (repo *repositoryImpl) roomLeft(ctx context.Context, q sqlx.ExtContext, roomID string, window model.Window, excludeBookingID string) (model.RoomLeft, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability.roomLeft")
	defer scope.End()

	query, args := buildRoomLeft(roomID, window, excludeBookingID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var rows []model.RoomLeft

	if err := repo.selectRows(ctx, q, &rows, query, args); err != nil {
		scope.TraceError(err)

		return model.RoomLeft{}, fmt.Errorf("failed to get rooms left: %w", err)
	}

	if len(rows) == 0 {
		return model.RoomLeft{}, nil
	}

	return rows[0], nil
}

func (repo *repositoryImpl) AvailableRooms(ctx context.Context, hotelID string, window model.Window) ([]model.RoomLeft, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability.AvailableRooms")
	defer scope.End()

	query, args := buildAvailableRooms(hotelID, window)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rows := []model.RoomLeft{}

	if err := repo.selectRows(ctx, repo.db.Read, &rows, query, args); err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get available rooms: %w", err)
	}

	return rows, nil
}

func (repo *repositoryImpl) AvailableHotelIDs(ctx context.Context, window model.Window) ([]string, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability.AvailableHotelIDs")
	defer scope.End()

	query, args := buildAvailableHotelIDs(window)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	ids := []string{}

	if err := repo.selectRows(ctx, repo.db.Read, &ids, query, args); err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get available hotels: %w", err)
	}

	return ids, nil
}

func (repo *repositoryImpl) get(ctx context.Context, q sqlx.ExtContext, dest any, query string, args map[string]any) error {
	boundQuery, boundArgs, err := bind(q, query, args)
	if err != nil {
		return err
	}

	if err = sqlx.GetContext(ctx, q, dest, boundQuery, boundArgs...); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to execute query (%s): %w", model.EntityName, err)
	}

	return nil
}

func (repo *repositoryImpl) selectRows(ctx context.Context, q sqlx.ExtContext, dest any, query string, args map[string]any) error {
	boundQuery, boundArgs, err := bind(q, query, args)
	if err != nil {
		return err
	}

	if err = sqlx.SelectContext(ctx, q, dest, boundQuery, boundArgs...); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to execute query (%s): %w", model.EntityName, err)
	}

	return nil
}

func bind(q sqlx.ExtContext, query string, args map[string]any) (string, []any, error) {
	named, boundArgs, err := sqlx.Named(query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return constant.Empty, nil, fmt.Errorf("failed to bind query (%s): %w", model.EntityName, err)
	}

	return q.Rebind(named), boundArgs, nil
}
