package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeDatabaseError      ErrorCode = "COMMON_010"
	ErrCodeCacheError         ErrorCode = "COMMON_011"
	ErrCodeExternalService    ErrorCode = "COMMON_012"
)

// Identifier Module Error Codes
const (
	ErrCodeInvalidIdentifier    ErrorCode = "CAS_001"
	ErrCodeIdentifierNotListed  ErrorCode = "CAS_002"
	ErrCodeRegistryBuildFailed  ErrorCode = "CAS_003"
)

// Extraction Module Error Codes
const (
	ErrCodeStrategyFailure           ErrorCode = "EXT_001"
	ErrCodeStrategyTimeout           ErrorCode = "EXT_002"
	ErrCodeMalformedProviderResponse ErrorCode = "EXT_003"
	ErrCodeNoViableResult            ErrorCode = "EXT_004"
	ErrCodeEmptyDocument             ErrorCode = "EXT_005"
)

// Classification Module Error Codes
const (
	ErrCodeClassificationFailed ErrorCode = "CLS_001"
	ErrCodeInvalidComposition   ErrorCode = "CLS_002"
)

// Provider Module Error Codes
const (
	ErrCodeProviderUnavailable ErrorCode = "PRV_001"
	ErrCodeProviderRateLimited ErrorCode = "PRV_002"
	ErrCodeProviderAuthFailed  ErrorCode = "PRV_003"
)

// Feedback Store Error Codes
const (
	ErrCodeFeedbackWriteFailed ErrorCode = "FBK_001"
	ErrCodeFeedbackReadFailed  ErrorCode = "FBK_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,

	ErrCodeInvalidIdentifier:   http.StatusBadRequest,
	ErrCodeIdentifierNotListed: http.StatusNotFound,
	ErrCodeRegistryBuildFailed: http.StatusInternalServerError,

	ErrCodeStrategyFailure:           http.StatusInternalServerError,
	ErrCodeStrategyTimeout:           http.StatusGatewayTimeout,
	ErrCodeMalformedProviderResponse: http.StatusInternalServerError,
	ErrCodeNoViableResult:            http.StatusInternalServerError,
	ErrCodeEmptyDocument:             http.StatusBadRequest,

	ErrCodeClassificationFailed: http.StatusInternalServerError,
	ErrCodeInvalidComposition:   http.StatusBadRequest,

	ErrCodeProviderUnavailable: http.StatusServiceUnavailable,
	ErrCodeProviderRateLimited: http.StatusTooManyRequests,
	ErrCodeProviderAuthFailed:  http.StatusBadGateway,

	ErrCodeFeedbackWriteFailed: http.StatusInternalServerError,
	ErrCodeFeedbackReadFailed:  http.StatusInternalServerError,
}

// defaultMessages provides human-readable fallbacks per code.
var defaultMessages = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "operation timed out",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",

	ErrCodeInvalidIdentifier:   "invalid identifier format",
	ErrCodeIdentifierNotListed: "identifier not present in any registry",
	ErrCodeRegistryBuildFailed: "registry build failed",

	ErrCodeStrategyFailure:           "extraction strategy failed",
	ErrCodeStrategyTimeout:           "extraction strategy timed out",
	ErrCodeMalformedProviderResponse: "malformed provider response",
	ErrCodeNoViableResult:            "no extraction strategy produced a viable result",
	ErrCodeEmptyDocument:             "document text is empty",

	ErrCodeClassificationFailed: "classification failed",
	ErrCodeInvalidComposition:   "invalid composition",

	ErrCodeProviderUnavailable: "text-completion provider unavailable",
	ErrCodeProviderRateLimited: "text-completion provider rate limited",
	ErrCodeProviderAuthFailed:  "text-completion provider authentication failed",

	ErrCodeFeedbackWriteFailed: "failed to append feedback record",
	ErrCodeFeedbackReadFailed:  "failed to read feedback records",
}

// HTTPStatusForCode returns the HTTP status for a code, defaulting to 500.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the canonical message for a code.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := defaultMessages[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError reports whether the code maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether the code maps to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	return HTTPStatusForCode(code) >= 500
}

// ModuleForCode extracts the module prefix from a code, e.g. "EXT" from
// "EXT_001". Codes without a recognisable prefix return "UNKNOWN".
func ModuleForCode(code ErrorCode) string {
	s := code.String()
	idx := strings.Index(s, "_")
	if idx <= 0 {
		return "UNKNOWN"
	}
	return s[:idx]
}
