// Package departments is responsible for everything related to departments:
// the record type and request DTOs, the Postgres and in-memory stores, the service that
// validates and merges input, and the HTTP handler that exposes CRUD under /api/department.
package departments

import "time"

// Department represents a department record.
// `_id` and `dep_name` keep the field names the web front end already uses.
type Department struct {
	ID          string    `json:"_id" db:"id" example:"3f0c2d7e-5a0b-4c55-9f3c-5e3b1f4a2b10"`
	Name        string    `json:"dep_name" db:"dep_name" example:"Engineering"`
	Description string    `json:"description" db:"description" example:"Builds the product"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateRequest is the body of POST /api/department/add.
type CreateRequest struct {
	Name        string `json:"dep_name" validate:"required,max=120" example:"HR"`
	Description string `json:"description" validate:"max=1000" example:""`
}

// UpdateRequest is the body of PUT /api/department/{id}.
// Nil fields are left unchanged; at least one field must be present.
type UpdateRequest struct {
	Name        *string `json:"dep_name,omitempty" validate:"omitempty,max=120" example:"People Ops"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// ListResponse is the body of GET /api/department.
type ListResponse struct {
	Success     bool          `json:"success" example:"true"`
	Departments []*Department `json:"departments"`
}

// ItemResponse is the body returned by create, get, update and delete.
type ItemResponse struct {
	Success    bool        `json:"success" example:"true"`
	Department *Department `json:"department"`
}
