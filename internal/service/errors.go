package service

import "errors"

// Every error a service method can return deliberately lives in this
// one block; the handler's error mapper switches over exactly these.
var (
	ErrActivityNotFound     = errors.New("activity not found")
	ErrActivityNameRequired = errors.New("activity name is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrAlreadySignedUp      = errors.New("already signed up for this activity")
	ErrNotSignedUp          = errors.New("not signed up for this activity")
)
