package service

import (
	"identify/internal/contact/models"
	strutil "identify/pkg/platform/strings"
)

// BuildIdentity consolidates group under rootID. The primary's own values lead
// the lists; the rest follow in group order with exact duplicates removed.
func BuildIdentity(rootID int64, group []*models.Contact) *models.Identity {
	emails := make([]string, 0, len(group))
	phones := make([]string, 0, len(group))
	secondaryIDs := make([]int64, 0, len(group))

	for _, c := range group {
		if c.ID == rootID {
			emails = append(emails, c.EmailValue())
			phones = append(phones, c.PhoneNumberValue())
			break
		}
	}
	for _, c := range group {
		if c.ID != rootID {
			emails = append(emails, c.EmailValue())
			phones = append(phones, c.PhoneNumberValue())
		}
		if c.LinkPrecedence == models.LinkPrecedenceSecondary {
			secondaryIDs = append(secondaryIDs, c.ID)
		}
	}

	return &models.Identity{
		PrimaryContactID:    rootID,
		Emails:              strutil.Dedupe(emails),
		PhoneNumbers:        strutil.Dedupe(phones),
		SecondaryContactIDs: secondaryIDs,
	}
}
