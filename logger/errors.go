package logger

import (
	"errors"

	"github.com/xh3b4sd/tracer"
)

var invalidFormatError = &tracer.Error{
	Kind: "invalidFormatError",
}

func IsInvalidFormat(err error) bool {
	return errors.Is(err, invalidFormatError)
}

var invalidLevelError = &tracer.Error{
	Kind: "invalidLevelError",
}

func IsInvalidLevel(err error) bool {
	return errors.Is(err, invalidLevelError)
}
