package service

import "errors"

var (
	// ErrNotFound covers unknown ids, unknown target model keys and
	// records hidden by the ownership predicate. Handlers surface it
	// as a 404 without distinguishing the three cases.
	ErrNotFound = errors.New("record not found")

	// ErrDishInUse is returned when deleting a dish that still has
	// cook sessions.
	ErrDishInUse = errors.New("dish has cook sessions and cannot be deleted")

	// ErrDuplicateDish is returned when an owner already has a dish
	// with the same name.
	ErrDuplicateDish = errors.New("a dish with this name already exists")

	// ErrUserHasRecords blocks account deletion while the user still
	// owns records.
	ErrUserHasRecords = errors.New("user still owns records")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")

	// ErrStorageUnavailable is returned by upload operations when no
	// blob store is configured.
	ErrStorageUnavailable = errors.New("blob storage is not configured")
)
