package domain

import "errors"

// ErrInvalidInput indicates that an execution input failed validation.
var ErrInvalidInput = errors.New("invalid execution input")

// ErrInvalidNumber indicates that numberToCheck is not a decimal integer.
var ErrInvalidNumber = errors.New("numberToCheck is not a decimal integer")

// ErrInvalidRecord indicates that a generated number record is inconsistent.
var ErrInvalidRecord = errors.New("invalid generated number record")

// ErrInvalidResult indicates that a branch result is malformed.
var ErrInvalidResult = errors.New("invalid branch result")
