package domain

import "errors"

// Sentinel errors for the topology model. Operations wrap these with
// fmt.Errorf("%w: ...") so callers can match them with errors.Is.
var (
	ErrDuplicateName = errors.New("duplicate device name")
	ErrNotFound      = errors.New("not found")
	ErrInterfaceBusy = errors.New("interface already connected")
	ErrNotConnected  = errors.New("interface not connected")
	ErrSelfLoop      = errors.New("interface cannot be connected to itself")
	ErrInvalidFormat = errors.New("invalid topology format")
)
