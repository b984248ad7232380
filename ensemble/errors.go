package ensemble

import (
	"errors"

	"github.com/xh3b4sd/tracer"
)

var invalidInputError = &tracer.Error{
	Kind: "invalidInputError",
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, invalidInputError)
}

var invalidManifestError = &tracer.Error{
	Kind: "invalidManifestError",
}

func IsInvalidManifest(err error) bool {
	return errors.Is(err, invalidManifestError)
}

var notRestoredError = &tracer.Error{
	Kind: "notRestoredError",
}

func IsNotRestored(err error) bool {
	return errors.Is(err, notRestoredError)
}
