package models

import (
	"fmt"
	"time"
)

// LinkPrecedence is a contact's role inside its identity group.
type LinkPrecedence string

const (
	LinkPrecedencePrimary   LinkPrecedence = "primary"
	LinkPrecedenceSecondary LinkPrecedence = "secondary"
)

// IsValid reports whether p is a known precedence.
func (p LinkPrecedence) IsValid() bool {
	return p == LinkPrecedencePrimary || p == LinkPrecedenceSecondary
}

// ParseLinkPrecedence converts a stored value into a LinkPrecedence.
func ParseLinkPrecedence(s string) (LinkPrecedence, error) {
	p := LinkPrecedence(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown link precedence %q", s)
	}
	return p, nil
}

// Contact is one stored identifier pair. Email and PhoneNumber never change
// after creation; only the link fields move when a primary is demoted.
type Contact struct {
	ID             int64
	Email          *string
	PhoneNumber    *string
	LinkedID       *int64
	LinkPrecedence LinkPrecedence
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewContact builds an unsaved contact and enforces the link invariant:
// a secondary must point somewhere, a primary must not.
func NewContact(email, phoneNumber *string, linkedID *int64, precedence LinkPrecedence) (*Contact, error) {
	switch precedence {
	case LinkPrecedencePrimary:
		if linkedID != nil {
			return nil, fmt.Errorf("primary contact cannot have a linked id")
		}
	case LinkPrecedenceSecondary:
		if linkedID == nil {
			return nil, fmt.Errorf("secondary contact requires a linked id")
		}
	default:
		return nil, fmt.Errorf("unknown link precedence %q", precedence)
	}
	if email == nil && phoneNumber == nil {
		return nil, fmt.Errorf("contact requires an email or a phone number")
	}
	return &Contact{
		Email:          email,
		PhoneNumber:    phoneNumber,
		LinkedID:       linkedID,
		LinkPrecedence: precedence,
	}, nil
}

// IsPrimary reports whether c is the root of its group.
func (c *Contact) IsPrimary() bool {
	return c.LinkPrecedence == LinkPrecedencePrimary
}

// RootID is the id of the primary c resolves to: itself when primary,
// otherwise its linked id.
func (c *Contact) RootID() int64 {
	if c.IsPrimary() || c.LinkedID == nil {
		return c.ID
	}
	return *c.LinkedID
}

// Clone returns a deep copy so callers never share pointers with a store.
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	out := *c
	if c.Email != nil {
		v := *c.Email
		out.Email = &v
	}
	if c.PhoneNumber != nil {
		v := *c.PhoneNumber
		out.PhoneNumber = &v
	}
	if c.LinkedID != nil {
		v := *c.LinkedID
		out.LinkedID = &v
	}
	return &out
}

// EmailValue returns the email or "" when absent.
func (c *Contact) EmailValue() string {
	if c.Email == nil {
		return ""
	}
	return *c.Email
}

// PhoneNumberValue returns the phone number or "" when absent.
func (c *Contact) PhoneNumberValue() string {
	if c.PhoneNumber == nil {
		return ""
	}
	return *c.PhoneNumber
}
