package loader

import (
	"errors"
	"os"

	"github.com/xh3b4sd/tracer"
)

func IsProcessAlreadyFinished(err error) bool {
	return errors.Is(err, os.ErrProcessDone)
}

var predictionFailedError = &tracer.Error{
	Kind: "predictionFailedError",
}

func IsPredictionFailed(err error) bool {
	return errors.Is(err, predictionFailedError)
}

var processExitedError = &tracer.Error{
	Kind: "processExitedError",
}

func IsProcessExited(err error) bool {
	return errors.Is(err, processExitedError)
}

var notRestoredError = &tracer.Error{
	Kind: "notRestoredError",
}

func IsNotRestored(err error) bool {
	return errors.Is(err, notRestoredError)
}
