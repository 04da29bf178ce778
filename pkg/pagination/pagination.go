// Package pagination implements the page-number pagination contract shared
// by all listing endpoints: pages are 1-based, the page size is fixed per
// listing, and the page count never drops below 1.
package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	// PatientsPageSize is the fixed page size for patient and catalog listings.
	PatientsPageSize = 10
	// HistoryPageSize is the fixed page size for a patient's diagnosis history.
	HistoryPageSize = 5
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Page     int
	PageSize int
}

// FromContext extracts the "page" query parameter from the echo context.
// Absent or invalid values default to page 1.
func FromContext(c echo.Context, pageSize int) Params {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	return Params{Page: page, PageSize: pageSize}
}

// Offset returns the row offset for SQL queries.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Pages returns the total page count for the given row total,
// max(1, ceil(total/pageSize)). An empty table still has one page.
func (p Params) Pages(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + p.PageSize - 1) / p.PageSize
}

// Response wraps a paginated API response.
type Response struct {
	Data     interface{} `json:"data"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	Pages    int         `json:"pages"`
	PageSize int         `json:"page_size"`
}

// NewResponse builds a Response for the given page of data.
func NewResponse(data interface{}, total int, p Params) *Response {
	return &Response{
		Data:     data,
		Total:    total,
		Page:     p.Page,
		Pages:    p.Pages(total),
		PageSize: p.PageSize,
	}
}
