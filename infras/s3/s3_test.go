package s3_test

import (
	"eventdesk/config"
	"eventdesk/infras/otel/mocks"
	"eventdesk/infras/s3"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_Key(t *testing.T) {
	assert.Equal(t, "bookings/b-1/flyer.pdf", s3.Object{Directory: "bookings/b-1", Name: "flyer.pdf"}.Key())
}

func TestObjectKeyFromURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.S3.PublicDomain = "https://files.example.com/"
	cfg.External.S3.APIEndpoint = "https://s3.example.com"
	cfg.External.S3.BucketName = "attachments"

	client, err := s3.New(cfg, mocks.NewOtel())
	require.NoError(t, err)

	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{name: "public domain", url: "https://files.example.com/bookings/b-1/flyer.pdf", expected: "bookings/b-1/flyer.pdf"},
		{name: "api endpoint", url: "https://s3.example.com/attachments/bookings/b-1/flyer.pdf", expected: "bookings/b-1/flyer.pdf"},
		{name: "foreign url", url: "https://drive.example.org/flyer.pdf", expected: ""},
		{name: "empty url", url: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, client.ObjectKeyFromURL(tt.url))
		})
	}
}
