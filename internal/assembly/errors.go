package assembly

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingPhotos is returned when no photos were uploaded.
	ErrMissingPhotos = errors.New("please upload at least one photo")
	// ErrMissingAddress is returned when the property address is blank.
	ErrMissingAddress = errors.New("please enter a property address")
)

// InternalAssemblyError reports an unexpected failure while building pages.
type InternalAssemblyError struct {
	Cause error
}

func (e *InternalAssemblyError) Error() string {
	return fmt.Sprintf("brochure assembly failed: %v", e.Cause)
}

func (e *InternalAssemblyError) Unwrap() error {
	return e.Cause
}

// IsValidation reports whether err is a user-correctable input problem.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingPhotos) || errors.Is(err, ErrMissingAddress)
}

// UserMessage returns the alert text shown to the user for err.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingPhotos):
		return "Please upload at least one photo"
	case errors.Is(err, ErrMissingAddress):
		return "Please enter a property address"
	default:
		return "Something went wrong generating the brochure. Please try again."
	}
}
