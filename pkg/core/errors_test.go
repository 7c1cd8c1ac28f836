package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesOnCode(t *testing.T) {
	err := NewError(CodeNotFound, "schedule not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrDeleteFail))
}

func TestErrNotFoundMessageIsNeutral(t *testing.T) {
	// The stores return this sentinel for members, rooms, schedules, and
	// markers alike, so the message names no particular entity.
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestError_IsMatchesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("confirm marker 4: %w", ErrItemDuplicate)

	assert.True(t, errors.Is(err, ErrItemDuplicate))
}

func TestWrapError_UnwrapsToCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(CodeUpstreamFailure, "reverse geocoding failed", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "UPSTREAM_FAILURE")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestError_AsExposesCode(t *testing.T) {
	var domainErr *Error
	err := fmt.Errorf("outer: %w", ErrMaxLimitExceeded)

	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeMaxLimitExceeded, domainErr.Code)
}

func TestColor_Assignable(t *testing.T) {
	for _, c := range Palette {
		assert.True(t, c.Assignable(), "palette color %s should be assignable", c)
	}
	assert.False(t, ColorRed.Assignable(), "RED is reserved for confirmed markers")
	assert.False(t, Color("MAGENTA").Assignable())
}
