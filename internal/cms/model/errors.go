package model

import "github.com/Laisky/errors/v2"

// ErrRecordNotFound no record matched the requested key.
var ErrRecordNotFound = errors.New("record not found")

// ErrDuplicateSlug the slug is already taken by another record.
var ErrDuplicateSlug = errors.New("duplicate slug")
