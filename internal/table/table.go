// Package table implements the global text filter and fixed-size pagination
// shared by the dashboard and the admin panel.
package table

import (
	"fmt"
	"strings"

	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
)

const PageSize = 5

type Column struct {
	Header   string
	Accessor func(u *models.User) string
}

// Columns are the displayed columns. Only these take part in filtering.
var Columns = []Column{
	{Header: "Username", Accessor: func(u *models.User) string { return u.Username }},
	{Header: "Email", Accessor: func(u *models.User) string { return u.Email }},
	{Header: "Role", Accessor: func(u *models.User) string { return u.Role }},
}

// Row is one rendered table row. A placeholder row has no User and no cells.
type Row struct {
	User  *models.User
	Cells []string
}

func (r Row) Placeholder() bool {
	return r.User == nil
}

type Options struct {
	// Pad fills the last page with placeholder rows up to PageSize.
	Pad bool
}

// Table is the filter and pagination state over a user slice.
type Table struct {
	data      []*models.User
	filtered  []*models.User
	query     string
	pageIndex int
	pad       bool
}

func New(data []*models.User, opts Options) *Table {
	t := &Table{data: data, pad: opts.Pad}
	t.filtered = Filter(data, "")
	return t
}

// Filter keeps the users for which any displayed column contains query,
// ignoring case. An empty query keeps everything.
func Filter(users []*models.User, query string) []*models.User {
	if query == "" {
		out := make([]*models.User, len(users))
		copy(out, users)
		return out
	}

	needle := strings.ToLower(query)
	var out []*models.User
	for _, u := range users {
		for _, col := range Columns {
			if strings.Contains(strings.ToLower(col.Accessor(u)), needle) {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

// SetGlobalFilter changes the query and returns to the first page.
func (t *Table) SetGlobalFilter(query string) {
	t.query = query
	t.filtered = Filter(t.data, query)
	t.pageIndex = 0
}

// SetData replaces the underlying rows, re-applying the current filter.
// The page index is pulled back if the last page disappeared.
func (t *Table) SetData(data []*models.User) {
	t.data = data
	t.filtered = Filter(data, t.query)
	t.clamp()
}

func (t *Table) GlobalFilter() string {
	return t.query
}

func (t *Table) PageIndex() int {
	return t.pageIndex
}

func (t *Table) FilteredCount() int {
	return len(t.filtered)
}

// PageCount is ceil(filtered/PageSize); zero when nothing matches.
func (t *Table) PageCount() int {
	return (len(t.filtered) + PageSize - 1) / PageSize
}

func (t *Table) CanPreviousPage() bool {
	return t.pageIndex > 0
}

func (t *Table) CanNextPage() bool {
	return t.pageIndex < t.PageCount()-1
}

func (t *Table) NextPage() {
	if t.CanNextPage() {
		t.pageIndex++
	}
}

func (t *Table) PreviousPage() {
	if t.CanPreviousPage() {
		t.pageIndex--
	}
}

// GotoPage moves to index, clamped to the available pages.
func (t *Table) GotoPage(index int) {
	t.pageIndex = index
	t.clamp()
}

func (t *Table) clamp() {
	last := t.PageCount() - 1
	if t.pageIndex > last {
		t.pageIndex = last
	}
	if t.pageIndex < 0 {
		t.pageIndex = 0
	}
}

// Page is the rendered view of the current page.
type Page struct {
	Headers         []string
	Rows            []Row
	Query           string
	PageIndex       int
	PageCount       int
	FilteredCount   int
	CanPreviousPage bool
	CanNextPage     bool
}

// Page builds the rows of the current page.
func (t *Table) Page() Page {
	start := t.pageIndex * PageSize
	end := start + PageSize
	if end > len(t.filtered) {
		end = len(t.filtered)
	}

	rows := make([]Row, 0, PageSize)
	for _, u := range t.filtered[start:end] {
		cells := make([]string, len(Columns))
		for i, col := range Columns {
			cells[i] = col.Accessor(u)
		}
		rows = append(rows, Row{User: u, Cells: cells})
	}
	if t.pad {
		for len(rows) < PageSize {
			rows = append(rows, Row{})
		}
	}

	return Page{
		Headers:         Headers(),
		Rows:            rows,
		Query:           t.query,
		PageIndex:       t.pageIndex,
		PageCount:       t.PageCount(),
		FilteredCount:   len(t.filtered),
		CanPreviousPage: t.CanPreviousPage(),
		CanNextPage:     t.CanNextPage(),
	}
}

func Headers() []string {
	headers := make([]string, len(Columns))
	for i, col := range Columns {
		headers[i] = col.Header
	}
	return headers
}

// Number is the 1-based page number.
func (p Page) Number() int {
	return p.PageIndex + 1
}

// Total is the page count shown to the user; never below one.
func (p Page) Total() int {
	if p.PageCount < 1 {
		return 1
	}
	return p.PageCount
}

func (p Page) Label() string {
	return fmt.Sprintf("Page %d of %d", p.Number(), p.Total())
}

func (p Page) PreviousIndex() int {
	if p.CanPreviousPage {
		return p.PageIndex - 1
	}
	return p.PageIndex
}

func (p Page) NextIndex() int {
	if p.CanNextPage {
		return p.PageIndex + 1
	}
	return p.PageIndex
}
