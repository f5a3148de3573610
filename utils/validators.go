package utils

import (
	"io"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"sigmat-api/apperrors"
	"sigmat-api/models"
	"sigmat-api/services"
)

// RegisterValidators adds the custom binding rules to gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("gender", validGender)
}

func validGender(fl validator.FieldLevel) bool {
	return models.Gender(fl.Field().String()).Valid()
}

// DescribeValidation turns binding errors into one readable line.
func DescribeValidation(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "email":
			parts = append(parts, field+" must be a valid e-mail")
		case "min":
			parts = append(parts, field+" must be at least "+fe.Param()+" characters")
		case "gender":
			parts = append(parts, field+" must be male or female")
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}

// ReadUpload reads a multipart file into an Upload. At most limit+1 bytes are read,
// enough for the service size check to reject an oversized file.
func ReadUpload(fh *multipart.FileHeader, limit int64) (services.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return services.Upload{}, apperrors.InvalidInput("Cannot read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return services.Upload{}, apperrors.InvalidInput("Cannot read uploaded file")
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return services.Upload{Data: data, ContentType: contentType, Filename: fh.Filename}, nil
}
