package model_test

import (
	"testing"
	"time"

	"hotelbook/internal/domains/availability/model"

	"github.com/stretchr/testify/assert"
)

func date(value string) time.Time {
	t, _ := time.Parse(time.DateOnly, value)

	return t
}

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name    string
		from    time.Time
		to      time.Time
		nights  int
		wantErr bool
	}{
		{name: "one night", from: date("2024-03-01"), to: date("2024-03-02"), nights: 1},
		{name: "several nights", from: date("2024-03-01"), to: date("2024-03-05"), nights: 4},
		{name: "time of day is dropped", from: date("2024-03-01").Add(15 * time.Hour), to: date("2024-03-03").Add(2 * time.Hour), nights: 2},
		{name: "empty window", from: date("2024-03-01"), to: date("2024-03-01"), wantErr: true},
		{name: "reversed window", from: date("2024-03-05"), to: date("2024-03-01"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := model.NewWindow(tt.from, tt.to)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidWindow)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.nights, w.Nights())
		})
	}
}

func TestParseWindow(t *testing.T) {
	w, err := model.ParseWindow("2024-03-01", "2024-03-05")
	assert.NoError(t, err)
	assert.Equal(t, "2024-03-01", w.FromString())
	assert.Equal(t, "2024-03-05", w.ToString())

	_, err = model.ParseWindow("01/03/2024", "2024-03-05")
	assert.Error(t, err)

	_, err = model.ParseWindow("2024-03-01", "")
	assert.Error(t, err)

	_, err = model.ParseWindow("2024-03-05", "2024-03-01")
	assert.ErrorIs(t, err, model.ErrInvalidWindow)
}

func TestWindowOverlaps(t *testing.T) {
	w := model.Window{From: date("2024-03-05"), To: date("2024-03-10")}

	tests := []struct {
		name     string
		from     string
		to       string
		expected bool
	}{
		{name: "ends on window start", from: "2024-03-01", to: "2024-03-05", expected: false},
		{name: "starts on window end", from: "2024-03-10", to: "2024-03-12", expected: false},
		{name: "crosses window start", from: "2024-03-04", to: "2024-03-06", expected: true},
		{name: "inside window", from: "2024-03-06", to: "2024-03-07", expected: true},
		{name: "covers window", from: "2024-03-01", to: "2024-03-20", expected: true},
		{name: "before window", from: "2024-02-01", to: "2024-02-03", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.Overlaps(date(tt.from), date(tt.to)))
		})
	}
}
