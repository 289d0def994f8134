package state

import "errors"

var (
	ErrValidationFailed      = errors.New("validation failed")
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrNoActiveTeam          = errors.New("no active team")
	ErrNotFound              = errors.New("not found")
	ErrNotMember             = errors.New("not a member of the team")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrPersistenceFailed     = errors.New("persistence failed")
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrAlreadyOnboarded      = errors.New("onboarding already completed")
)
