package tasks

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("task not found")

// Status is exposed as an integer on the wire; the ordinals are part of the
// API contract and must not be reordered.
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
)

func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusCompleted
}

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Status      Status    `json:"status"`
	ProjectID   int64     `json:"projectId"`
	ProjectName string    `json:"projectName"`
	OwnerID     int64     `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Filter narrows the task set. Nil fields impose no constraint; set fields
// are combined with AND.
type Filter struct {
	Status    *Status
	DueBefore *time.Time
	DueAfter  *time.Time
	ProjectID *int64
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

const (
	defaultPageNumber = 1
	defaultPageSize   = 10
)

// Normalize replaces out-of-range values with the defaults.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = defaultPageNumber
	}
	if p.Size < 1 {
		p.Size = defaultPageSize
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

type PagedResult struct {
	Items      []Task `json:"items"`
	TotalCount int    `json:"totalCount"`
	PageNumber int    `json:"pageNumber"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}

// NewPagedResult derives the page metadata from the unsliced total.
func NewPagedResult(items []Task, total int, page Page) PagedResult {
	if items == nil {
		items = []Task{}
	}
	return PagedResult{
		Items:      items,
		TotalCount: total,
		PageNumber: page.Number,
		PageSize:   page.Size,
		TotalPages: (total + page.Size - 1) / page.Size,
	}
}
