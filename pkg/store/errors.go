package store

import "errors"

var (
	ErrNameRequired    = errors.New("message name is required")
	ErrActorRequired   = errors.New("both tx and rx actors are required")
	ErrUnknownActor    = errors.New("unknown actor")
	ErrUnknownMessage  = errors.New("unknown message")
	ErrUnknownService  = errors.New("unknown service")
	ErrServiceRequired = errors.New("service name is required")
)
