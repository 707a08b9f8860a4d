package gbm

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrLoadModel    = errors.New("load model failed")
	ErrInvalidModel = errors.New("invalid model")
	ErrScore        = errors.New("score failed")
)
