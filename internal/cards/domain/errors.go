package domain

import "errors"

var (
	// ErrNotFound covers both a missing record and one owned by another
	// user. The two cases are deliberately indistinguishable to callers.
	ErrNotFound = errors.New("not found")

	ErrNameRequired    = errors.New("first_name and last_name are required")
	ErrProfileRequired = errors.New("profile_id is required")
)
