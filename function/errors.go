package function

import "errors"

// ErrEmptyCall is returned when an empty Function is called.
var ErrEmptyCall = errors.New("call of empty function")

// ErrDoubleRelease is the panic value raised when a heap payload is released twice.
// It indicates a broken ownership invariant, never a caller mistake.
var ErrDoubleRelease = errors.New("payload released twice")

// ErrRegistryInUse is returned by Configure once descriptors have been created.
var ErrRegistryInUse = errors.New("descriptor registry already in use")
