package validator

import (
	"encoding/json"
	"eventdesk/shared/constant"
	"eventdesk/shared/failure"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

func layoutValidation(layout string) val.Func {
	return func(field val.FieldLevel) bool {
		value := field.Field().String()

		parsed, err := time.Parse(layout, value)

		return err == nil && parsed.Format(layout) == value
	}
}

// ValidateFile checks an upload against the allowed content types and the
// size cap, and returns the sniffed content type. The client supplied
// Content-Type header is ignored.
func ValidateFile(file *multipart.FileHeader, allowed []string, maxSizeMB float64) (string, error) {
	if file == nil {
		return "", failure.BadRequestFromString("file is required") //nolint:wrapcheck
	}

	if float64(file.Size) > maxSizeMB*constant.BytesInMegabyte {
		return "", failure.BadRequestFromString(fmt.Sprintf("file must not be larger than %s MB", strconv.FormatFloat(maxSizeMB, 'f', -1, 64))) //nolint:wrapcheck
	}

	reader, err := file.Open()
	if err != nil {
		return "", failure.BadRequest(fmt.Errorf("failed to open file: %w", err)) //nolint:wrapcheck
	}
	defer reader.Close()

	detected, err := mimetype.DetectReader(reader)
	if err != nil {
		return "", failure.BadRequest(fmt.Errorf("failed to read file: %w", err)) //nolint:wrapcheck
	}

	for _, contentType := range allowed {
		if detected.Is(contentType) {
			return contentType, nil
		}
	}

	return "", failure.BadRequestFromString(fmt.Sprintf("file must be one of %s, got %s", strings.Join(allowed, ", "), detected.String())) //nolint:wrapcheck
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	custom := map[string]val.Func{
		"hhmm":  layoutValidation(constant.ClockLayout),
		"date":  layoutValidation(constant.DayLayout),
		"month": layoutValidation(constant.MonthLayout),
	}

	for tag, fn := range custom {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate decodes JSON from r into data and validates the result.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
