package services

import "errors"

// Validation failures surfaced synchronously to the caller. None of these
// are retried by the engine; the command layer decides how to present them.
var (
	ErrAlreadyAsleep    = errors.New("subject is already asleep")
	ErrNotAsleep        = errors.New("subject is not asleep")
	ErrDurationTooShort = errors.New("sleep duration under one minute")
	ErrAlreadyInGroup   = errors.New("identity already belongs to an active group")
	ErrGroupNotFound    = errors.New("no active group with that code")
)
