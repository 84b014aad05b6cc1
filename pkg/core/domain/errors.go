package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every concrete error below wraps exactly one of these so callers
// can branch with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrStore        = errors.New("store unavailable")
)

var (
	ErrPlaceNotFound = fmt.Errorf("place %w", ErrNotFound)
	ErrLinkNotFound  = fmt.Errorf("link %w", ErrNotFound)
	ErrThemeNotFound = fmt.Errorf("theme %w", ErrNotFound)

	// ErrPlaceInactive is reported for places whose owner switched them off.
	// It wraps ErrNotFound so the public page never leaks more than "unavailable".
	ErrPlaceInactive = fmt.Errorf("place is currently unavailable: %w", ErrNotFound)

	ErrAccessDenied = fmt.Errorf("place belongs to another user: %w", ErrForbidden)
)

var (
	ErrEmptyPlatform       = fmt.Errorf("%w: platform name is required", ErrValidation)
	ErrInvalidURL          = fmt.Errorf("%w: URL must start with http:// or https://", ErrValidation)
	ErrLinkIndexOutOfRange = fmt.Errorf("%w: link index out of range", ErrValidation)
	ErrUnknownLinkType     = fmt.Errorf("%w: unknown link type", ErrValidation)
	ErrUnknownSection      = fmt.Errorf("%w: unknown section", ErrValidation)
	ErrNameRequired        = fmt.Errorf("%w: place name is required", ErrValidation)
	ErrInvalidColor        = fmt.Errorf("%w: colors must be hex values such as #3B82F6", ErrValidation)
	ErrInvalidMapURL       = fmt.Errorf("%w: invalid location map URL", ErrValidation)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email address", ErrValidation)
	ErrImportNameRequired  = fmt.Errorf("%w: import file must contain a \"name\" field", ErrValidation)
	ErrImportMalformed     = fmt.Errorf("%w: import file is malformed", ErrValidation)
)
