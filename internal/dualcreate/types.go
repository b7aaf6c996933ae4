package dualcreate

import "strings"

// Address is a postal address as accepted from callers.
type Address struct {
	Street     string `json:"street,omitempty" yaml:"street,omitempty"`
	City       string `json:"city,omitempty" yaml:"city,omitempty"`
	State      string `json:"state,omitempty" yaml:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty" yaml:"postalCode,omitempty"`
}

// IsZero reports whether every field is blank.
func (a *Address) IsZero() bool {
	if a == nil {
		return true
	}
	return strings.TrimSpace(a.Street) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.State) == "" &&
		strings.TrimSpace(a.PostalCode) == ""
}

// ContactInput describes the contact to find or create.
type ContactInput struct {
	FirstName   string   `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty" yaml:"lastName,omitempty"`
	DisplayName string   `json:"displayName,omitempty" yaml:"displayName,omitempty" validate:"omitempty,max=200"`
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Status      string   `json:"status,omitempty" yaml:"status,omitempty"`
	Phone       string   `json:"phone,omitempty" yaml:"phone,omitempty" validate:"omitempty,max=40"`
	Email       string   `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	Address     *Address `json:"address,omitempty" yaml:"address,omitempty"`
}

// JobInput describes the job to create.
type JobInput struct {
	Name        string   `json:"name,omitempty" yaml:"name,omitempty" validate:"omitempty,max=200"`
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Status      string   `json:"status,omitempty" yaml:"status,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Address     *Address `json:"address,omitempty" yaml:"address,omitempty"`
}

// AddJobInput attaches a new job to an existing contact.
type AddJobInput struct {
	ContactID   string   `json:"contactId" yaml:"contactId" validate:"required"`
	JobName     string   `json:"jobName,omitempty" yaml:"jobName,omitempty" validate:"omitempty,max=200"`
	ContactName string   `json:"contactName,omitempty" yaml:"contactName,omitempty"`
	Job         JobInput `json:"job" yaml:"job"`
}

// Actor is the end user a record is attributed to.
type Actor struct {
	Email string
	Name  string
}

// Tenant carries the per-request CRM credential and actor.
type Tenant struct {
	APIKey string
	Actor  Actor
}

// Ref identifies a CRM record by internal id and optional record number.
type Ref struct {
	ID     string `json:"id" yaml:"id"`
	Number string `json:"number,omitempty" yaml:"number,omitempty"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Result is the linked contact/job pair produced by an orchestration run.
type Result struct {
	Customer       Ref    `json:"customer" yaml:"customer"`
	Job            Ref    `json:"job" yaml:"job"`
	ContactCreated bool   `json:"contactCreated" yaml:"contactCreated"`
	MatchedBy      string `json:"matchedBy,omitempty" yaml:"matchedBy,omitempty"`
}
