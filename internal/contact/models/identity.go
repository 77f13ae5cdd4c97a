package models

import (
	"strings"

	dErrors "identify/pkg/domain-errors"
	strutil "identify/pkg/platform/strings"
)

// IdentifyRequest is the incoming identifier pair. Either field may be nil.
type IdentifyRequest struct {
	Email       *string
	PhoneNumber *string
}

// Normalize trims both identifiers and collapses blanks to nil.
func (r *IdentifyRequest) Normalize() {
	r.Email = strutil.TrimPtr(r.Email)
	r.PhoneNumber = strutil.TrimPtr(r.PhoneNumber)
}

// Validate requires at least one identifier. Call Normalize first.
func (r *IdentifyRequest) Validate() error {
	if r.Email == nil && r.PhoneNumber == nil {
		return dErrors.New(dErrors.CodeValidation, "At least one of email or phoneNumber must be provided.")
	}
	return nil
}

// LockKeys lists the identifiers this request touches, sorted so that callers
// acquiring several locks always do so in the same order.
func (r *IdentifyRequest) LockKeys() []string {
	keys := make([]string, 0, 2)
	if r.Email != nil {
		keys = append(keys, "email:"+*r.Email)
	}
	if r.PhoneNumber != nil {
		keys = append(keys, "phone:"+*r.PhoneNumber)
	}
	// "email:" sorts before "phone:", so the slice is already ordered.
	return keys
}

// String renders the request for logs without exposing full identifiers.
func (r *IdentifyRequest) String() string {
	var b strings.Builder
	b.WriteString("email=")
	b.WriteString(mask(r.Email))
	b.WriteString(" phone=")
	b.WriteString(mask(r.PhoneNumber))
	return b.String()
}

func mask(v *string) string {
	if v == nil {
		return "<none>"
	}
	if len(*v) <= 2 {
		return "**"
	}
	return (*v)[:2] + strings.Repeat("*", len(*v)-2)
}

// Identity is the consolidated view of one group.
type Identity struct {
	PrimaryContactID    int64
	Emails              []string
	PhoneNumbers        []string
	SecondaryContactIDs []int64
}
