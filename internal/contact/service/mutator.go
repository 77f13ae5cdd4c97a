package service

import (
	"context"

	"identify/internal/contact/models"
	dErrors "identify/pkg/domain-errors"
)

// AddContact inserts a new contact. Store failures are wrapped as internal
// errors and are not retried.
func AddContact(ctx context.Context, store Store, email, phoneNumber *string, linkedID *int64, precedence models.LinkPrecedence) (*models.Contact, error) {
	contact, err := models.NewContact(email, phoneNumber, linkedID, precedence)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "invalid contact")
	}
	saved, err := store.Insert(ctx, contact)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert contact")
	}
	return saved, nil
}

// HasNewInformation reports whether the request supplies an email or phone
// number that no member of group already carries. Absent values never count.
func HasNewInformation(group []*models.Contact, email, phoneNumber *string) bool {
	emailSeen := email == nil
	phoneSeen := phoneNumber == nil
	for _, c := range group {
		if !emailSeen && c.Email != nil && *c.Email == *email {
			emailSeen = true
		}
		if !phoneSeen && c.PhoneNumber != nil && *c.PhoneNumber == *phoneNumber {
			phoneSeen = true
		}
		if emailSeen && phoneSeen {
			return false
		}
	}
	return !emailSeen || !phoneSeen
}
