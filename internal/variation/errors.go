package variation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks user input errors (blank stock id, missing parent, bad rule type).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoCategoriesAssigned is returned when a product has no attribute categories to vary along.
	ErrNoCategoriesAssigned = errors.New("no categories assigned to this product")

	// ErrNoValuesForCategories is returned when an assigned category resolves to zero candidate values.
	ErrNoValuesForCategories = errors.New("no values found for assigned categories")

	// ErrUnknownRuleType is returned by ApplyRule for rule types other than fixed, percentage and combined.
	ErrUnknownRuleType = errors.New("unknown pricing rule type")

	// ErrParentNotFound is returned when the parent stock item does not exist.
	ErrParentNotFound = errors.New("parent product not found")
)

// IsPrecondition reports whether err is a domain precondition that should be shown to the
// user as an informational message rather than treated as a failure.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNoCategoriesAssigned) || errors.Is(err, ErrNoValuesForCategories)
}

// InputError is a user input error carrying a message fit for display.
// It matches ErrInvalidArgument, and Kind when set, under errors.Is.
type InputError struct {
	Kind error
	Msg  string
}

func (e *InputError) Error() string { return e.Msg }

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidArgument || (e.Kind != nil && target == e.Kind)
}

// Invalidf builds an InputError.
func Invalidf(format string, args ...interface{}) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

// PreconditionMessage returns the status line shown for a precondition error, or "" for any other error.
func PreconditionMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoCategoriesAssigned):
		return "No categories assigned to this product"
	case errors.Is(err, ErrNoValuesForCategories):
		return "No values found for assigned categories"
	}
	return ""
}
