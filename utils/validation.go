package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AllowedImportExtensions is the set of file extensions accepted by the bulk
// import endpoints.
var AllowedImportExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// DefaultMaxImportSize is the upload limit used when none is configured (5MB).
const DefaultMaxImportSize = 5 << 20

// ValidateImportUpload checks that an uploaded import file is non-empty,
// within maxBytes and has a supported extension.
func ValidateImportUpload(fh *multipart.FileHeader, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImportSize
	}
	if fh.Size == 0 {
		return fmt.Errorf("file is empty")
	}
	if fh.Size > maxBytes {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of %d bytes", fh.Size, maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !AllowedImportExtensions[ext] {
		return fmt.Errorf("invalid file type '%s'; allowed types: .csv, .xlsx", ext)
	}
	return nil
}

// SanitizeValidationError takes a validator error and returns a user-friendly message
// without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Invalid request body"
	}

	var messages []string
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of %s", field, fe.Param()))
		case "gt", "gtfield":
			messages = append(messages, fmt.Sprintf("%s must be greater than %s", field, strings.ToLower(fe.Param())))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}
	return strings.Join(messages, "; ")
}
