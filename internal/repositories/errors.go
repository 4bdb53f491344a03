package repositories

import "errors"

// ErrNotFound is returned when a record does not exist or is owned by a
// different user. Callers cannot distinguish the two cases.
var ErrNotFound = errors.New("record not found")
