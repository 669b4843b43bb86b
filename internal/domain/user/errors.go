package user

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailExists      = errors.New("user with this email already exists")
	ErrHRAccessRequired = errors.New("access denied: HR role required")
	ErrEmployeeOnly     = errors.New("access denied: employee role required")
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
)
