package validator_test

import (
	"hotelbook/shared/failure"
	"hotelbook/shared/validator"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type bookingRequest struct {
	RoomID   string `json:"room_id"   validate:"required,uuid"`
	DateFrom string `json:"date_from" validate:"required,dateonly"`
	DateTo   string `json:"date_to"   validate:"required,dateonly"`
	Guests   int    `json:"guests"    validate:"gte=1,lte=10"`
	Channel  string `json:"channel"   validate:"omitempty,oneof=web phone agent"`
}

func validBooking() bookingRequest {
	return bookingRequest{
		RoomID:   "4f0b5a4e-0a3b-4d1c-9a52-0d8f3f1b8c11",
		DateFrom: "2024-03-01",
		DateTo:   "2024-03-05",
		Guests:   2,
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *bookingRequest)
		wantErr string
	}{
		{
			name:   "valid request",
			mutate: func(_ *bookingRequest) {},
		},
		{
			name:    "missing room",
			mutate:  func(r *bookingRequest) { r.RoomID = "" },
			wantErr: "room_id is required",
		},
		{
			name:    "room is not a uuid",
			mutate:  func(r *bookingRequest) { r.RoomID = "42" },
			wantErr: "room_id must be a valid UUID",
		},
		{
			name:    "date with time part",
			mutate:  func(r *bookingRequest) { r.DateFrom = "2024-03-01T10:00:00Z" },
			wantErr: "date_from must be a date in YYYY-MM-DD format",
		},
		{
			name:    "date out of calendar",
			mutate:  func(r *bookingRequest) { r.DateTo = "2024-02-30" },
			wantErr: "date_to must be a date in YYYY-MM-DD format",
		},
		{
			name:    "too many guests",
			mutate:  func(r *bookingRequest) { r.Guests = 11 },
			wantErr: "guests must be less than or equal to 10",
		},
		{
			name:    "unknown channel",
			mutate:  func(r *bookingRequest) { r.Channel = "fax" },
			wantErr: "channel must be one of web phone agent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBooking()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantErr)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		tag     string
		wantErr bool
	}{
		{name: "valid date", field: "2024-12-31", tag: "dateonly"},
		{name: "invalid date", field: "31-12-2024", tag: "dateonly", wantErr: true},
		{name: "valid email", field: "guest@hotel.test", tag: "required,email"},
		{name: "invalid email", field: "guest", tag: "required,email", wantErr: true},
		{name: "negative quantity", field: -1, tag: "gte=0", wantErr: true},
		{name: "zero quantity", field: 0, tag: "gte=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid body",
			body: `{"room_id":"4f0b5a4e-0a3b-4d1c-9a52-0d8f3f1b8c11","date_from":"2024-03-01","date_to":"2024-03-02","guests":1}`,
		},
		{
			name:    "malformed json",
			body:    `{"room_id":`,
			wantErr: true,
		},
		{
			name:    "fails validation",
			body:    `{"room_id":"4f0b5a4e-0a3b-4d1c-9a52-0d8f3f1b8c11","date_from":"tomorrow","date_to":"2024-03-02","guests":1}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req bookingRequest

			err := validator.Validate(strings.NewReader(tt.body), &req)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
