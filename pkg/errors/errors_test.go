package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ContractPilot/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"lead not found", errors.ErrCodeLeadNotFound, "lead L-1 not found"},
		{"render failed", errors.ErrCodeRenderFailed, "browser crashed"},
		{"invalid param", errors.CodeInvalidParam, "contract_type must not be empty"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)
			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
			assert.NotEmpty(t, ae.Stack)
		})
	}
}

func TestError_Format(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeLeadNotFound, "lead not found")
	assert.Equal(t, "[CTR_001] lead not found", ae.Error())

	withDetail := ae.WithDetail("lead_id=42")
	assert.Equal(t, "[CTR_001] lead not found: lead_id=42", withDetail.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the receiver")

	wrapped := errors.Wrap(stderrors.New("connection refused"), errors.ErrCodePersistenceFailed, "insert contract")
	assert.Equal(t, "[CTR_005] insert contract: connection refused", wrapped.Error())
}

func TestWrap_NilReturnsNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "ignored"))
}

func TestWrap_UnknownPreservesCode(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeLeadNotFound, "lead not found")
	outer := errors.Wrap(inner, errors.CodeUnknown, "loading lead")
	assert.Equal(t, errors.ErrCodeLeadNotFound, errors.GetCode(outer))

	foreign := errors.Wrap(stderrors.New("boom"), errors.CodeUnknown, "loading lead")
	assert.Equal(t, errors.CodeInternal, errors.GetCode(foreign))
}

func TestIsCode_TraversesFmtWrapping(t *testing.T) {
	t.Parallel()

	base := errors.New(errors.ErrCodeContractNotFound, "contract not found")
	chain := fmt.Errorf("handler: %w", errors.Wrap(base, errors.CodeInternal, "repo"))

	assert.True(t, errors.IsCode(chain, errors.ErrCodeContractNotFound))
	assert.True(t, errors.IsCode(chain, errors.CodeInternal))
	assert.True(t, errors.IsNotFound(chain))
	assert.False(t, errors.IsConflict(chain))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeInternal, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeInvalidStatusTransition,
		errors.GetCode(errors.New(errors.ErrCodeInvalidStatusTransition, "x")))
}

func TestUnwrap_SupportsStdlibIs(t *testing.T) {
	t.Parallel()

	sentinel := stderrors.New("sentinel")
	wrapped := errors.Wrap(sentinel, errors.ErrCodeStorageError, "upload")
	assert.True(t, stderrors.Is(wrapped, sentinel))

	var ae *errors.AppError
	require.True(t, errors.As(wrapped, &ae))
	assert.Equal(t, errors.ErrCodeStorageError, ae.Code)
}

func TestValidationHelpers(t *testing.T) {
	t.Parallel()

	err := errors.NewValidationError("lead_id", "must not be empty")
	assert.Equal(t, "invalid lead_id: must not be empty", err.Message)
	assert.True(t, errors.IsValidation(err))
	assert.True(t, errors.IsValidation(errors.InvalidParam("bad")))
	assert.True(t, errors.IsConflict(errors.Conflict("dup")))
}

func TestNilReceiverBuilders(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(stderrors.New("y")))
}

//Personal.AI order the ending
