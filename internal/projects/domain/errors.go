package domain

import "errors"

var (
	ErrNotFound         = errors.New("project not found")
	ErrUnknownSection   = errors.New("unknown proposal section")
	ErrInvalidPayload   = errors.New("invalid section payload")
	ErrVersionConflict  = errors.New("proposal data was modified concurrently")
	ErrProjectURLTaken  = errors.New("project url already in use")
	ErrUserNameRequired = errors.New("a user name is required before publishing")
)
