package patient

import (
	"errors"

	"github.com/xh3b4sd/tracer"
)

const (
	MissingFieldsMessage = "Missing required fields. Please fill all fields."
	InvalidInputMessage  = "Invalid input values. Please enter correct numerical values."
)

var invalidInputError = &tracer.Error{
	Kind: "invalidInputError",
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, invalidInputError)
}

var invalidObjectError = &tracer.Error{
	Kind: "invalidObjectError",
}

func IsInvalidObject(err error) bool {
	return errors.Is(err, invalidObjectError)
}

var missingFieldsError = &tracer.Error{
	Kind: "missingFieldsError",
}

func IsMissingFields(err error) bool {
	return errors.Is(err, missingFieldsError)
}

// Message returns the client facing text of a validation error. The text never
// names the offending field.
func Message(err error) string {
	if IsMissingFields(err) {
		return MissingFieldsMessage
	}

	if IsInvalidInput(err) {
		return InvalidInputMessage
	}

	return ""
}
