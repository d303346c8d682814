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

// Common error codes.
const (
	CodeOK             ErrorCode = "OK"
	CodeUnknown        ErrorCode = "COMMON_000"
	CodeInternal       ErrorCode = "COMMON_001"
	CodeInvalidParam   ErrorCode = "COMMON_002"
	CodeNotFound       ErrorCode = "COMMON_003"
	CodeConflict       ErrorCode = "COMMON_004"
	CodeTimeout        ErrorCode = "COMMON_005"
	CodeNotImplemented ErrorCode = "COMMON_006"
	CodeUnavailable    ErrorCode = "COMMON_007"
)

// Compound module error codes.
const (
	CodeInvalidSMILES      ErrorCode = "CPD_001"
	CodeDescriptorFailed   ErrorCode = "CPD_002"
	CodeBatchConfigInvalid ErrorCode = "CPD_003"
	CodeAnalysisNotFound   ErrorCode = "CPD_004"
)

// Infrastructure error codes.
const (
	CodeDatabaseError ErrorCode = "INFRA_001"
	CodeCacheError    ErrorCode = "INFRA_002"
	CodeConfigError   ErrorCode = "INFRA_003"
)

// errorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var errorCodeHTTPStatus = map[ErrorCode]int{
	CodeInternal:       http.StatusInternalServerError,
	CodeInvalidParam:   http.StatusBadRequest,
	CodeNotFound:       http.StatusNotFound,
	CodeConflict:       http.StatusConflict,
	CodeTimeout:        http.StatusGatewayTimeout,
	CodeNotImplemented: http.StatusNotImplemented,
	CodeUnavailable:    http.StatusServiceUnavailable,

	CodeInvalidSMILES:      http.StatusBadRequest,
	CodeDescriptorFailed:   http.StatusInternalServerError,
	CodeBatchConfigInvalid: http.StatusBadRequest,
	CodeAnalysisNotFound:   http.StatusNotFound,

	CodeDatabaseError: http.StatusInternalServerError,
	CodeCacheError:    http.StatusInternalServerError,
	CodeConfigError:   http.StatusInternalServerError,
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
// Unmapped codes default to 500.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether the ErrorCode maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether the ErrorCode maps to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode
// (e.g. "CPD" for CodeInvalidSMILES).
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
