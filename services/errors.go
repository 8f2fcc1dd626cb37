package services

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field is already taken
	ErrDuplicate = errors.New("record already exists")
	// ErrInvalidReference is returned when a foreign key points at a missing record
	ErrInvalidReference = errors.New("referenced record does not exist")
	// ErrConflict is returned when a delete would orphan dependent records
	ErrConflict = errors.New("record is still referenced")
	// ErrFileNotFound is returned by storage providers when the object is already gone
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidCredentials covers unknown email, wrong password and disabled accounts alike
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSessionNotFound is returned for unknown or expired session tokens
	ErrSessionNotFound = errors.New("session not found")
)
