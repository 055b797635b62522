package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"orgdrive/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxFileNameLength = 255

func ValidateFileName(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	if len(filename) > maxFileNameLength {
		return fmt.Errorf("filename too long (max %d characters)", maxFileNameLength)
	}

	if !utf8.ValidString(filename) {
		return fmt.Errorf("filename contains invalid UTF-8 characters")
	}

	if strings.ContainsRune(filename, '\x00') {
		return fmt.Errorf("filename contains a NUL character")
	}
	return nil
}

func validateFileType(fl validator.FieldLevel) bool {
	return models.FileType(fl.Field().String()).Valid()
}

// RegisterValidators installs the custom binding tags on gin's validator.
// It is safe to call more than once.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("filetype", validateFileType)
}
