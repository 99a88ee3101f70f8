package services

import "errors"

// Sentinel errors shared by the service layer. A note that exists but is not
// visible to the caller reports ErrNotFound, never a distinct "forbidden":
// the two cases are deliberately indistinguishable so note IDs cannot be
// probed for existence.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnauthorized  = errors.New("unauthorized")
)
