package project

import (
	"time"

	"github.com/timgluz/dva/efficiency"
	"github.com/timgluz/dva/response"
)

const (
	DefaultLimit  = 100
	DefaultOffset = 0
)

type Collection struct {
	Items      []ListItem          `json:"items"`
	Pagination response.Pagination `json:"pagination"`
}

// ListItem is the table row of a project, without raw measurements.
type ListItem struct {
	ID                int               `json:"id"`
	Slug              string            `json:"slug"`
	Name              string            `json:"name"`
	Designer          string            `json:"designer"`
	Description       string            `json:"description"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
	EfficiencyPercent float64           `json:"efficiencyPercent"`
	Rating            efficiency.Rating `json:"rating"`
}

func mapRecordToListItem(r Record) ListItem {
	return ListItem{
		ID:                r.ID,
		Slug:              r.Slug(),
		Name:              r.Name,
		Designer:          r.Designer,
		Description:       r.Description,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		EfficiencyPercent: r.EfficiencyResult.EfficiencyPercent,
		Rating:            r.EfficiencyResult.Rating,
	}
}

// NewCollection pages through records that are already ordered by id.
func NewCollection(records []Record, offset, limit int) *Collection {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = DefaultOffset
	}

	total := len(records)
	start := min(offset, total)
	end := min(start+limit, total)

	items := make([]ListItem, 0, end-start)
	for _, r := range records[start:end] {
		items = append(items, mapRecordToListItem(r))
	}

	return &Collection{
		Items:      items,
		Pagination: response.NewPagination(offset, limit, total),
	}
}

// Page returns one page of the records ordered by id.
func (s *Store) Page(offset, limit int) *Collection {
	return NewCollection(s.List(), offset, limit)
}
