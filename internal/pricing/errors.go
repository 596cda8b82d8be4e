package pricing

import "errors"

var (
	// ErrUnknownItemCode is returned when a catalog lookup misses.
	ErrUnknownItemCode = errors.New("unknown item code")
	// ErrUnknownContainerSize is returned when the catalog has no base price for a size.
	ErrUnknownContainerSize = errors.New("unknown container size")
	// ErrDuplicateItemCode is returned when two catalog entries share a code.
	ErrDuplicateItemCode = errors.New("duplicate item code")
	// ErrInvalidEntry is returned for malformed catalog entries.
	ErrInvalidEntry = errors.New("invalid catalog entry")
	// ErrIncompleteCatalog is returned when enumerated options have no catalog entry.
	ErrIncompleteCatalog = errors.New("catalog incomplete")
	// ErrCatalogUnavailable is returned when no catalog snapshot is loaded.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrInvalidContainerSize indicates the size is outside the supported enumeration.
	ErrInvalidContainerSize = errors.New("invalid container size")
	// ErrInvalidFeatureType indicates the door/top configuration is not recognised.
	ErrInvalidFeatureType = errors.New("invalid feature type")
	// ErrInvalidInsuranceTier indicates the insurance tier is not recognised.
	ErrInvalidInsuranceTier = errors.New("invalid insurance tier")
	// ErrInvalidQuantity indicates the quantity is not a positive whole number.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInvalidAddOn indicates an add-on toggle is neither on nor off.
	ErrInvalidAddOn = errors.New("invalid add-on value")

	// ErrInvalidAmount is returned when a price string cannot be parsed exactly.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAmountOverflow is returned when an amount no longer fits in Money.
	ErrAmountOverflow = errors.New("amount overflow")
)

// ValidationError ties an input error to the offending field.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Field + ": " + e.Err.Error()
}

// Unwrap exposes the sentinel error for errors.Is.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsValidationError reports whether err was caused by caller input.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsCatalogError reports whether err points at a malformed or stale catalog
// rather than at the caller's input.
func IsCatalogError(err error) bool {
	return errors.Is(err, ErrUnknownItemCode) ||
		errors.Is(err, ErrUnknownContainerSize) ||
		errors.Is(err, ErrCatalogUnavailable) ||
		errors.Is(err, ErrAmountOverflow)
}
