package health

import "errors"

var (
	errBaseURLRequired  = errors.New("health base url is required")
	errUnexpectedStatus = errors.New("health endpoint returned unexpected status")
	errMalformedBody    = errors.New("health endpoint returned malformed body")
)
