package domain

import "errors"

// Sentinel errors for the auction domain. Use errors.Is() to check these.
// Bid rejections are not errors; they are returned as models.Outcome values.
var (
	// ErrItemNotFound indicates the requested auction item does not exist.
	ErrItemNotFound = errors.New("auction item not found")

	// ErrDuplicateItem indicates an item with the same id was already seeded.
	ErrDuplicateItem = errors.New("auction item already exists")

	// ErrInvalidItem indicates a seeded item violates domain constraints.
	ErrInvalidItem = errors.New("invalid auction item")

	// ErrMalformedEvent indicates a bid event that can never be processed.
	// Consumers drop it instead of retrying.
	ErrMalformedEvent = errors.New("malformed bid event")
)
