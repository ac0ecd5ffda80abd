package entity

import (
	"strings"

	"studio-api/core/entity"
)

// UnknownClientName is the display-name fallback when no name field on the
// client resolves, or the client lookup itself fails.
const UnknownClientName = "Unknown client"

type Client struct {
	entity.BaseEntity
	FullName    *string `db:"full_name" json:"full_name,omitempty"`
	FirstName   *string `db:"first_name" json:"first_name,omitempty"`
	LastName    *string `db:"last_name" json:"last_name,omitempty"`
	CompanyName *string `db:"company_name" json:"company_name,omitempty"`
	Email       *string `db:"email" json:"email,omitempty"`
	Phone       *string `db:"phone" json:"phone,omitempty"`
}

func (Client) TableName() string {
	return "clients"
}

// DisplayName resolves the name shown on calendar events. Precedence: full
// name, first+last, first, last, company, then the unknown placeholder.
func (c *Client) DisplayName() string {
	if c == nil {
		return UnknownClientName
	}

	full := deref(c.FullName)
	first := deref(c.FirstName)
	last := deref(c.LastName)
	company := deref(c.CompanyName)

	switch {
	case full != "":
		return full
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	case company != "":
		return company
	default:
		return UnknownClientName
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
