package validator_test

import (
	"bytes"
	"eventdesk/shared/failure"
	"eventdesk/shared/validator"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotRequest struct {
	Title     string `json:"title"      validate:"required,max=20"`
	Email     string `json:"email"      validate:"omitempty,email"`
	StartDate string `json:"start_date" validate:"required,date"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	Status    string `json:"status"     validate:"omitempty,oneof=pending approved rejected"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectedMsg string
	}{
		{
			name: "valid body",
			body: `{"title":"Choir","start_date":"2025-03-14","start_time":"09:30"}`,
		},
		{
			name:        "malformed json",
			body:        `{"title":`,
			expectedMsg: "failed to decode request body",
		},
		{
			name:        "missing required field",
			body:        `{"start_date":"2025-03-14","start_time":"09:30"}`,
			expectedMsg: "Title is required",
		},
		{
			name:        "impossible date",
			body:        `{"title":"Choir","start_date":"2025-02-30","start_time":"09:30"}`,
			expectedMsg: "StartDate must be a date in YYYY-MM-DD format",
		},
		{
			name:        "clock without leading zero",
			body:        `{"title":"Choir","start_date":"2025-03-14","start_time":"9:30"}`,
			expectedMsg: "StartTime must be a 24-hour time in HH:mm format",
		},
		{
			name:        "clock past midnight",
			body:        `{"title":"Choir","start_date":"2025-03-14","start_time":"24:00"}`,
			expectedMsg: "StartTime must be a 24-hour time in HH:mm format",
		},
		{
			name:        "unknown status",
			body:        `{"title":"Choir","start_date":"2025-03-14","start_time":"09:30","status":"done"}`,
			expectedMsg: "Status must be one of pending approved rejected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req slotRequest

			err := validator.Validate(strings.NewReader(tt.body), &req)

			if tt.expectedMsg == "" {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedMsg)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       any
		tag         string
		expectError bool
	}{
		{name: "valid month", field: "2025-03", tag: "month"},
		{name: "invalid month", field: "2025-13", tag: "month", expectError: true},
		{name: "valid email", field: "ana@example.com", tag: "email"},
		{name: "empty required", field: "", tag: "required", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			assert.Equal(t, tt.expectError, err != nil)
		})
	}
}

func uploadedFile(t *testing.T, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "attachment.bin")
	require.NoError(t, err)

	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)

	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["file"][0]
}

func TestValidateFile(t *testing.T) {
	allowed := []string{"application/pdf", "image/png", "image/jpeg"}

	pdf := append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte("a"), 100)...)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpeg := []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
	text := bytes.Repeat([]byte("meeting notes "), 10)
	largePDF := append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte("a"), 4096)...)

	tests := []struct {
		name         string
		content      []byte
		maxSizeMB    float64
		expectedType string
		expectedMsg  string
	}{
		{name: "pdf", content: pdf, maxSizeMB: 1, expectedType: "application/pdf"},
		{name: "png", content: png, maxSizeMB: 1, expectedType: "image/png"},
		{name: "jpeg", content: jpeg, maxSizeMB: 1, expectedType: "image/jpeg"},
		{name: "text is rejected", content: text, maxSizeMB: 1, expectedMsg: "file must be one of application/pdf, image/png, image/jpeg"},
		{name: "large pdf is rejected", content: largePDF, maxSizeMB: 0.001, expectedMsg: "file must not be larger than 0.001 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contentType, err := validator.ValidateFile(uploadedFile(t, tt.content), allowed, tt.maxSizeMB)

			if tt.expectedMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedType, contentType)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Contains(t, err.Error(), tt.expectedMsg)
		})
	}
}

func TestValidateFile_Missing(t *testing.T) {
	_, err := validator.ValidateFile(nil, []string{"application/pdf"}, 1)

	require.Error(t, err)
	assert.Equal(t, "file is required", err.Error())
}

func TestValidateFile_IgnoresClientContentType(t *testing.T) {
	file := uploadedFile(t, bytes.Repeat([]byte("x"), 3_300))
	file.Header.Set("Content-Type", "application/pdf")

	_, err := validator.ValidateFile(file, []string{"application/pdf"}, 1)

	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}
