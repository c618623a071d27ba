package ir

import "github.com/pkg/errors"

var (
	// ErrParse marks a malformed operation string.
	ErrParse = errors.New("parse error")
	// ErrReference marks an operation reading a switch that was never initialized.
	ErrReference = errors.New("reference error")
)
