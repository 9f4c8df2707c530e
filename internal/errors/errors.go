package errors

import (
	stderrors "errors"
	"fmt"
)

// ParcelNotFoundError reports a declared parcel identifier with zero
// matches in the cadastral layer. It aborts resolution for the owning
// declaration only; the batch keeps going.
type ParcelNotFoundError struct {
	Identifier string
	FarmFID    int64
}

func (e *ParcelNotFoundError) Error() string {
	return fmt.Sprintf("cadastral parcel %q not found (declaration %d)", e.Identifier, e.FarmFID)
}

// IsParcelNotFound reports whether err wraps a ParcelNotFoundError.
func IsParcelNotFound(err error) bool {
	var pnf *ParcelNotFoundError
	return stderrors.As(err, &pnf)
}

// MissingSpatialReferenceError reports a layer whose CRS could not be
// determined. Nothing downstream can proceed without a CRS, so this is
// fatal for the pipeline invocation.
type MissingSpatialReferenceError struct {
	Layer string
}

func (e *MissingSpatialReferenceError) Error() string {
	return fmt.Sprintf("spatial reference for layer %q was not found", e.Layer)
}

// StoreWriteError wraps any failure during a transactional write phase.
// The whole transaction has been rolled back when this is returned.
type StoreWriteError struct {
	Op  string
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write failed (%s): %v", e.Op, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// ConfigurationError wraps an invalid or unreadable configuration.
// Raised before any pipeline logic runs.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
