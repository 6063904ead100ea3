// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package models

// FilterOp is a comparison operator in a list filter.
type FilterOp string

// Supported filter operators.
const (
	FilterOpEqual    FilterOp = "=="
	FilterOpNotEqual FilterOp = "!="
)

// Filter is one (field, operator, value) triple constraining a list request.
type Filter struct {
	Field string   `json:"field"`
	Op    FilterOp `json:"op"`
	Value string   `json:"value"`
}

// OrderBy specifies the sort field and direction for a list request.
type OrderBy struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

// PageRequest describes one page of a filtered, ordered listing.
// StartAfter is an opaque cursor returned by a previous page; callers must
// not interpret its contents.
type PageRequest struct {
	Filters    []Filter `json:"filters,omitempty"`
	OrderBy    OrderBy  `json:"order_by"`
	PageSize   int      `json:"page_size"`
	StartAfter string   `json:"start_after,omitempty"`
}

// PageResult is one page of items plus the cursor for the next page.
// HasMore is true exactly when the page is full, so the final page of a
// collection whose size is a multiple of the page size reports HasMore and
// the follow-up request returns an empty page.
type PageResult[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}
