package responses

import (
	"fmt"

	"github.com/foomo/sitegen/content"
)

// Error describes an error for humans and machines
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e Error) Error() string {
	return fmt.Sprintf("status:%d, message:%q", e.Status, e.Message)
}

// NewError - a brand new error
func NewError(status int, message string) *Error {
	return &Error{
		Status:  status,
		Message: message,
	}
}

// URL a redirect target, e.g. a payment or billing page
type URL struct {
	URL string `json:"url"`
}

// Deploy result of a deployment
type Deploy struct {
	URL string `json:"url"`
	// Project hosting project name, needed to attach a domain
	Project string                `json:"projectName"`
	Site    *content.SiteInstance `json:"site,omitempty"`
}

// Revisions stored revision keys of a site, newest first
type Revisions struct {
	ID        string   `json:"id"`
	Revisions []string `json:"revisions"`
}
