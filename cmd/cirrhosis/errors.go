package main

import (
	"errors"

	"github.com/xh3b4sd/tracer"
)

var invalidArtifactError = &tracer.Error{
	Kind: "invalidArtifactError",
}

func IsInvalidArtifact(err error) bool {
	return errors.Is(err, invalidArtifactError)
}
