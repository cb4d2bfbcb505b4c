package domain

import "fmt"

// PageRequest is an offset-based page over a sorted result set.
type PageRequest struct {
	From int
	Size int
}

// NewPageRequest validates and builds a PageRequest. From is an offset into
// the result set (>= 0), Size the maximum number of rows returned (>= 1).
func NewPageRequest(from, size int) (PageRequest, error) {
	if from < 0 {
		return PageRequest{}, NewValidationError(fmt.Sprintf("invalid page offset: %d", from))
	}
	if size < 1 {
		return PageRequest{}, NewValidationError(fmt.Sprintf("invalid page size: %d", size))
	}
	return PageRequest{From: from, Size: size}, nil
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int { return p.From }

// Limit returns the maximum number of rows to return.
func (p PageRequest) Limit() int { return p.Size }
