package domain

import "github.com/google/uuid"

// PollListFilter selects a projection and page for poll list queries.
type PollListFilter struct {
	Status     PollStatusFilter
	CategoryID *uuid.UUID
	Limit      int
	Offset     int
}

// PageInfo is the pagination envelope returned by list queries.
type PageInfo struct {
	Total   int
	Page    int
	PerPage int
	HasNext bool
	HasPrev bool
}

// NewPageInfo derives the envelope from a total row count and the request.
func NewPageInfo(total, page, perPage int) PageInfo {
	offset := (page - 1) * perPage
	return PageInfo{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		HasNext: offset+perPage < total,
		HasPrev: page > 1,
	}
}
