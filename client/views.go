package client

import (
	"context"
	"strings"

	"github.com/user/ems-go/departments"
)

// DefaultPageSize is the number of rows per page in the department table.
const DefaultPageSize = 10

// DepartmentAPI is the part of the API the department views use. *Client implements it.
type DepartmentAPI interface {
	ListDepartments(ctx context.Context) ([]*departments.Department, error)
	GetDepartment(ctx context.Context, id string) (*departments.Department, error)
	CreateDepartment(ctx context.Context, req departments.CreateRequest) (*departments.Department, error)
	UpdateDepartment(ctx context.Context, id string, req departments.UpdateRequest) (*departments.Department, error)
	DeleteDepartment(ctx context.Context, id string) (*departments.Department, error)
}

// DepartmentRow is one line of the department table.
type DepartmentRow struct {
	Serial int
	ID     string
	Name   string
}

// DepartmentList is the state behind the department table: the fetched records, the
// search box and the current error banner.
type DepartmentList struct {
	api      DepartmentAPI
	all      []*departments.Department
	query    string
	PageSize int
	Loading  bool
	Error    string
}

// NewDepartmentList creates an empty list view over api.
func NewDepartmentList(api DepartmentAPI) *DepartmentList {
	return &DepartmentList{api: api, PageSize: DefaultPageSize}
}

// Load fetches all departments. This is the only method that lists over the network.
func (v *DepartmentList) Load(ctx context.Context) error {
	v.Loading = true
	defer func() { v.Loading = false }()

	deps, err := v.api.ListDepartments(ctx)
	if err != nil {
		v.Error = ErrorMessage(err)
		return err
	}
	v.all = deps
	v.Error = ""
	return nil
}

// Search sets the filter. Matching is a case-insensitive substring test on the name
// and runs entirely on the loaded records.
func (v *DepartmentList) Search(query string) {
	v.query = strings.TrimSpace(query)
}

// Query returns the current filter.
func (v *DepartmentList) Query() string { return v.query }

// Rows returns the rows matching the filter. Serial numbers follow the load order.
func (v *DepartmentList) Rows() []DepartmentRow {
	needle := strings.ToLower(v.query)
	rows := make([]DepartmentRow, 0, len(v.all))
	for i, d := range v.all {
		if needle != "" && !strings.Contains(strings.ToLower(d.Name), needle) {
			continue
		}
		rows = append(rows, DepartmentRow{Serial: i + 1, ID: d.ID, Name: d.Name})
	}
	return rows
}

// PageCount returns how many pages the filtered rows span; at least 1.
func (v *DepartmentList) PageCount() int {
	size := v.pageSize()
	n := len(v.Rows())
	if n == 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Page returns the rows of page n (1-based). Out-of-range pages are empty.
func (v *DepartmentList) Page(n int) []DepartmentRow {
	rows := v.Rows()
	size := v.pageSize()
	start := (n - 1) * size
	if n < 1 || start >= len(rows) {
		return nil
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// Delete deletes the department on the server, then drops it from the local state.
// When the call fails the row stays and Error carries the server's message.
func (v *DepartmentList) Delete(ctx context.Context, id string) error {
	if _, err := v.api.DeleteDepartment(ctx, id); err != nil {
		v.Error = ErrorMessage(err)
		return err
	}
	kept := v.all[:0]
	for _, d := range v.all {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	v.all = kept
	v.Error = ""
	return nil
}

func (v *DepartmentList) pageSize() int {
	if v.PageSize <= 0 {
		return DefaultPageSize
	}
	return v.PageSize
}

// DepartmentForm backs both the add and the edit screen. An empty ID means add.
type DepartmentForm struct {
	api         DepartmentAPI
	ID          string
	Name        string
	Description string
	Error       string
}

// NewAddDepartmentForm returns an empty add form.
func NewAddDepartmentForm(api DepartmentAPI) *DepartmentForm {
	return &DepartmentForm{api: api}
}

// LoadEditDepartmentForm fetches department id and fills the form with it.
func LoadEditDepartmentForm(ctx context.Context, api DepartmentAPI, id string) (*DepartmentForm, error) {
	d, err := api.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DepartmentForm{api: api, ID: d.ID, Name: d.Name, Description: d.Description}, nil
}

// Submit creates or updates the department. On success it returns the route to go to
// next. On failure the fields are left as typed and Error holds the message to display.
func (f *DepartmentForm) Submit(ctx context.Context) (string, error) {
	f.Error = ""

	var err error
	if f.ID == "" {
		_, err = f.api.CreateDepartment(ctx, departments.CreateRequest{Name: f.Name, Description: f.Description})
	} else {
		name, desc := f.Name, f.Description
		_, err = f.api.UpdateDepartment(ctx, f.ID, departments.UpdateRequest{Name: &name, Description: &desc})
	}
	if err != nil {
		f.Error = ErrorMessage(err)
		return "", err
	}
	return DepartmentsRoute, nil
}
