// Package crm defines the Pipedesk domain model consumed by the assistant's
// tools: organizations, people, and deals, plus the service interfaces the
// tools call into.
//
// The package holds value types and pure helpers only. Persistence lives in
// crm/postgres; the tools depend on the interfaces declared in service.go.
package crm

import "time"

// Organization is a company record owned by a single CRM user.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Person is a contact record, optionally linked to an organization.
type Person struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name,omitempty"`
	LastName       string    `json:"last_name,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	OrganizationID string    `json:"organization_id,omitempty"`
	UserID         string    `json:"user_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FullName returns the person's display name ("First Last", trimmed).
func (p Person) FullName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.LastName
	}
}

// Deal is a sales opportunity, usually attached to an organization.
type Deal struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Amount            float64   `json:"amount"`
	Stage             string    `json:"stage,omitempty"`
	OrganizationID    string    `json:"organization_id,omitempty"`
	PersonID          string    `json:"person_id,omitempty"`
	ExpectedCloseDate string    `json:"expected_close_date,omitempty"`
	UserID            string    `json:"user_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// OrganizationInput carries the fields for creating an organization.
type OrganizationInput struct {
	Name    string
	Address string
}

// OrganizationPatch carries the fields of an organization update.
// Nil fields are left untouched.
type OrganizationPatch struct {
	Name    *string
	Address *string
}

// PersonInput carries the fields for creating a person.
type PersonInput struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Notes          string
	OrganizationID string
}

// PersonPatch carries the fields of a person update.
// Nil fields are left untouched.
type PersonPatch struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	Notes          *string
	OrganizationID *string
}

// DealInput carries the fields for creating a deal.
type DealInput struct {
	Name              string
	Amount            float64
	Stage             string
	OrganizationID    string
	PersonID          string
	ExpectedCloseDate string
}

// DealPatch carries the fields of a deal update.
// Nil fields are left untouched.
type DealPatch struct {
	Name              *string
	Amount            *float64
	Stage             *string
	OrganizationID    *string
	PersonID          *string
	ExpectedCloseDate *string
}
