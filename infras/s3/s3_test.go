package s3_test

import (
	"hotelbook/infras/s3"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.hotel.test/hotels/h1.png", s3.PublicURL("https://cdn.hotel.test", "hotels/h1.png"))
	assert.Equal(t, "https://cdn.hotel.test/hotels/h1.png", s3.PublicURL("https://cdn.hotel.test/", "hotels/h1.png"))
}

func TestObjectKeyFromURL(t *testing.T) {
	const (
		public   = "https://cdn.hotel.test"
		endpoint = "https://s3.storage.test"
		bucket   = "hotel-images"
	)

	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{name: "public domain url", url: "https://cdn.hotel.test/hotels/h1.png", expected: "hotels/h1.png"},
		{name: "path style api url", url: "https://s3.storage.test/hotel-images/hotels/h2.jpg", expected: "hotels/h2.jpg"},
		{name: "foreign url", url: "https://example.com/hotels/h1.png", expected: ""},
		{name: "domain only", url: "https://cdn.hotel.test/", expected: ""},
		{name: "empty", url: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s3.ObjectKeyFromURL(public, endpoint, bucket, tt.url))
		})
	}
}
