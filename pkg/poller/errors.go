package poller

import "errors"

var (
	ErrProbeFuncRequired  = errors.New("probe func is required")
	ErrVisibilityRequired = errors.New("visibility checker is required")
)
