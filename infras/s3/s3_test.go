package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "rooms/101/photo.png", ObjectKey("rooms", "101", "photo.png"))
	assert.Equal(t, "rooms/photo.png", ObjectKey("/rooms/", "photo.png"))
}

func TestKeyFromURL(t *testing.T) {
	svc := &s3Impl{
		bucket:       "hotel-assets",
		publicDomain: "https://cdn.example.com/",
		apiEndpoint:  "http://minio:9000",
	}

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "public url", url: "https://cdn.example.com/rooms/101/a.png", want: "rooms/101/a.png"},
		{name: "path style api url", url: "http://minio:9000/hotel-assets/rooms/101/a.png", want: "rooms/101/a.png"},
		{name: "other bucket", url: "http://minio:9000/other/rooms/a.png", want: ""},
		{name: "foreign host", url: "https://images.example.org/a.png", want: ""},
		{name: "bare domain", url: "https://cdn.example.com/", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.KeyFromURL(tt.url))
		})
	}
}

func TestPublicURL_RoundTrip(t *testing.T) {
	svc := &s3Impl{bucket: "hotel-assets", publicDomain: "https://cdn.example.com"}

	url := svc.publicURL("rooms/101/a.png")
	assert.Equal(t, "https://cdn.example.com/rooms/101/a.png", url)
	assert.Equal(t, "rooms/101/a.png", svc.KeyFromURL(url))
}
