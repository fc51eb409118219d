package ir

import "errors"

// ErrPassNotFound indicates FindPass could not locate the requested
// function/pass combination in a decoded Document.
var ErrPassNotFound = errors.New("ir: pass not found")
