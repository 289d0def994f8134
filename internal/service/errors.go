package service

import "errors"

var (
	ErrInvitationInvalid = errors.New("invitation is invalid or expired")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrAuthCancelled     = errors.New("sign-in was cancelled")
	ErrNoCustomer        = errors.New("no billing customer for user")
	ErrUnsupportedFile   = errors.New("unsupported file")
	ErrApiKeyLimit       = errors.New("api key limit reached")
	ErrApiKeyNotFound    = errors.New("api key not found")
)
