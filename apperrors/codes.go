package apperrors

type Code string

const (
	CodeNotFound             Code = "NOT_FOUND"
	CodeConflict             Code = "CONFLICT"
	CodeForbidden            Code = "FORBIDDEN"
	CodeInvalidInput         Code = "INVALID_INPUT"
	CodeInsufficientResource Code = "INSUFFICIENT_RESOURCE"
	CodeUnauthorized         Code = "UNAUTHORIZED"
	CodeInternal             Code = "INTERNAL"
)
