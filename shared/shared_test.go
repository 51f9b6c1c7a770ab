package shared_test

import (
	"context"
	"errors"
	"hotelbook/shared"
	"hotelbook/shared/cache/mocks"
	"hotelbook/shared/constant"
	"hotelbook/shared/dto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "empty string returns nil", input: "", expected: nil},
		{name: "true", input: "true", expected: boolPtr(true)},
		{name: "numeric false", input: "0", expected: boolPtr(false)},
		{name: "upper case", input: "TRUE", expected: boolPtr(true)},
		{name: "invalid string returns nil", input: "available", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestConvertStringToInt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{name: "plain number", input: "3", expected: 3},
		{name: "surrounding spaces", input: " 12 ", expected: 12},
		{name: "negative", input: "-1", expected: -1},
		{name: "empty", input: "", wantErr: true},
		{name: "not a number", input: "two", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := shared.ConvertStringToInt(tt.input)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total returns 1", total: 0, limit: 10, expected: 1},
		{name: "zero limit returns 1", total: 100, limit: 0, expected: 1},
		{name: "exact division", total: 40, limit: 10, expected: 4},
		{name: "remainder rounds up", total: 41, limit: 10, expected: 5},
		{name: "fewer than a page", total: 3, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type roomPatch struct {
		Title       string  `db:"title"`
		Description *string `db:"description"`
		Price       *int64  `db:"price"`
		Quantity    *int    `db:"quantity"`
		Ignored     string
	}

	description := "sea view"
	zero := 0

	tests := []struct {
		name     string
		data     any
		expected map[string]any
	}{
		{
			name: "only set fields are kept",
			data: roomPatch{Title: "Deluxe", Description: &description, Ignored: "x"},
			expected: map[string]any{
				"title":       "Deluxe",
				"description": &description,
			},
		},
		{
			name:     "pointer to zero value is an explicit update",
			data:     roomPatch{Quantity: &zero},
			expected: map[string]any{"quantity": &zero},
		},
		{
			name:     "empty patch keeps only metadata",
			data:     roomPatch{},
			expected: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.TransformFields(tt.data, "admin")

			assert.Equal(t, "admin", result[constant.FieldModifiedBy])
			assert.IsType(t, time.Time{}, result[constant.FieldModifiedAt])

			delete(result, constant.FieldModifiedBy)
			delete(result, constant.FieldModifiedAt)

			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFilterByID(t *testing.T) {
	result := shared.FilterByID("hotel-1", "hotel_id", "rooms")

	assert.Equal(t, dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    "hotel_id",
				Value:    "hotel-1",
				Operator: dto.FilterOperatorEq,
				Table:    "rooms",
			},
		},
	}, result)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "hotel:get", shared.BuildCacheKey("hotel:get"))
	assert.Equal(t, "room:get:h1:r1", shared.BuildCacheKey("room:get", "h1", "r1"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10, SortBy: "title", SortDir: dto.SortDirAsc}
	filter := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "location", Value: "Altai", Operator: dto.FilterOperatorLike},
		},
	}

	key := shared.BuildCacheKeyWithQuery("hotel:list", params, filter)

	assert.True(t, strings.HasPrefix(key, "hotel:list:"))
	assert.Equal(t, key, shared.BuildCacheKeyWithQuery("hotel:list", params, filter))

	otherPage := params
	otherPage.Page = 2
	assert.NotEqual(t, key, shared.BuildCacheKeyWithQuery("hotel:list", otherPage, filter))

	otherFilter := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "location", Value: "Sochi", Operator: dto.FilterOperatorLike},
		},
	}
	assert.NotEqual(t, key, shared.BuildCacheKeyWithQuery("hotel:list", params, otherFilter))
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := mocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "availability:*").Return(nil)
	shared.InvalidateCaches(context.Background(), mockCache, "availability:")

	mockCache.EXPECT().Clear(gomock.Any(), "booking:*").Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), mockCache, "booking:")
}

func boolPtr(b bool) *bool {
	return &b
}
