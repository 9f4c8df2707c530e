package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParcelNotFoundError_Message(t *testing.T) {
	err := &ParcelNotFoundError{Identifier: "750560000A0123", FarmFID: 42}

	assert.Contains(t, err.Error(), "750560000A0123")
	assert.Contains(t, err.Error(), "42")
}

func TestIsParcelNotFound_Wrapped(t *testing.T) {
	inner := &ParcelNotFoundError{Identifier: "750560000A0123", FarmFID: 7}
	wrapped := fmt.Errorf("resolving declaration: %w", inner)

	assert.True(t, IsParcelNotFound(wrapped))
	assert.False(t, IsParcelNotFound(stderrors.New("something else")))
	assert.False(t, IsParcelNotFound(nil))
}

func TestStoreWriteError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := &StoreWriteError{Op: "write links", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "write links")
}

func TestConfigurationError_Unwrap(t *testing.T) {
	cause := stderrors.New("missing field")
	err := &ConfigurationError{Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestMissingSpatialReferenceError_Message(t *testing.T) {
	err := &MissingSpatialReferenceError{Layer: "public.declarations"}

	assert.Contains(t, err.Error(), "public.declarations")
}
