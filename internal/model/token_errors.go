package model

import "errors"

var (
	ErrTokenType      = errors.New("token type mismatch")
	ErrTokenMalformed = errors.New("token claims are malformed")
)
