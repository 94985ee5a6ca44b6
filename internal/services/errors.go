package services

import "github.com/pkg/errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidDraft      = errors.New("invalid product")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNotSignedIn       = errors.New("not signed in")
)
