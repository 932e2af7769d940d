package kv

import "errors"

// ErrClosed is returned by any operation attempted after Close.
var ErrClosed = errors.New("kv: backend closed")
