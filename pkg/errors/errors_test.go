package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(CodeInvalidSMILES, "bad smiles")
	assert.Equal(t, CodeInvalidSMILES, err.Code)
	assert.Equal(t, "bad smiles", err.Message)
	assert.NotEmpty(t, err.Stack)
	assert.Equal(t, "[CPD_001] bad smiles", err.Error())
}

func TestWithDetail(t *testing.T) {
	base := New(CodeNotFound, "analysis not found")
	detailed := base.WithDetail("id=abc")
	assert.Equal(t, "[COMMON_003] analysis not found: id=abc", detailed.Error())
	// Original is not mutated.
	assert.Empty(t, base.Detail)

	var nilErr *AppError
	assert.Nil(t, nilErr.WithDetail("x"))
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeDatabaseError, "query failed")
	assert.Equal(t, CodeDatabaseError, err.Code)
	assert.ErrorIs(t, err, cause)

	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestWrap_PreservesCodeOnUnknown(t *testing.T) {
	inner := New(CodeInvalidSMILES, "bad smiles")
	wrapped := Wrap(fmt.Errorf("context: %w", inner), CodeUnknown, "outer")
	assert.Equal(t, CodeInvalidSMILES, wrapped.Code)
}

func TestIsCode(t *testing.T) {
	inner := New(CodeBatchConfigInvalid, "mismatch")
	wrapped := Wrap(inner, CodeInternal, "outer")
	assert.True(t, IsCode(wrapped, CodeBatchConfigInvalid))
	assert.True(t, IsCode(wrapped, CodeInternal))
	assert.False(t, IsCode(wrapped, CodeNotFound))
	assert.False(t, IsCode(nil, CodeInternal))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("gone")))
	assert.True(t, IsNotFound(New(CodeAnalysisNotFound, "no such batch")))
	assert.False(t, IsNotFound(Internal("boom")))
	assert.False(t, IsNotFound(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, CodeInvalidParam, GetCode(InvalidParam("bad")))
}

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatusForCode(CodeInvalidSMILES))
	assert.Equal(t, http.StatusBadRequest, HTTPStatusForCode(CodeBatchConfigInvalid))
	assert.Equal(t, http.StatusNotFound, HTTPStatusForCode(CodeAnalysisNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(ErrorCode("NOPE_999")))
}

func TestClientServerClassification(t *testing.T) {
	assert.True(t, IsClientError(CodeInvalidParam))
	assert.False(t, IsServerError(CodeInvalidParam))
	assert.True(t, IsServerError(CodeDatabaseError))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "CPD", ModuleForCode(CodeInvalidSMILES))
	assert.Equal(t, "INFRA", ModuleForCode(CodeCacheError))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("_x")))
}
