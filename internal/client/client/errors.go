package client

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrEmptyResponse = errors.New("empty response")
)
