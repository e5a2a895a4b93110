package repository

import "errors"

var (
	// ErrStaleVersion means the row changed since it was read.
	ErrStaleVersion = errors.New("record was modified concurrently")
	// ErrStockChanged means a conditional stock decrement matched no row.
	ErrStockChanged = errors.New("stock is no longer sufficient")
	// ErrAlreadyAnswered means the comment already carries a reply.
	ErrAlreadyAnswered = errors.New("comment already answered")
)
