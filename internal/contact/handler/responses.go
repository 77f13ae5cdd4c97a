package handler

import "identify/internal/contact/models"

// IdentifyResponse wraps the consolidated contact.
type IdentifyResponse struct {
	Contact ContactResponse `json:"contact"`
}

type ContactResponse struct {
	PrimaryContactID    int64    `json:"primaryContactId"`
	Emails              []string `json:"emails"`
	PhoneNumbers        []string `json:"phoneNumbers"`
	SecondaryContactIDs []int64  `json:"secondaryContactIds"`
}

// HelloResponse is the body of GET /.
type HelloResponse struct {
	Message string `json:"message"`
}

func toIdentifyResponse(identity *models.Identity) IdentifyResponse {
	return IdentifyResponse{
		Contact: ContactResponse{
			PrimaryContactID:    identity.PrimaryContactID,
			Emails:              nonNil(identity.Emails),
			PhoneNumbers:        nonNil(identity.PhoneNumbers),
			SecondaryContactIDs: nonNil(identity.SecondaryContactIDs),
		},
	}
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
