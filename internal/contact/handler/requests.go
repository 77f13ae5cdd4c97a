package handler

import (
	"bytes"
	"encoding/json"
	"fmt"

	"identify/internal/contact/models"
)

// IdentifyRequest is the POST /identify body.
type IdentifyRequest struct {
	Email       *identifier `json:"email"`
	PhoneNumber *identifier `json:"phoneNumber"`
}

// Validate normalizes both identifiers and requires at least one.
func (r *IdentifyRequest) Validate() error {
	req := r.toModel()
	return req.Validate()
}

func (r *IdentifyRequest) toModel() models.IdentifyRequest {
	req := models.IdentifyRequest{
		Email:       r.Email.value(),
		PhoneNumber: r.PhoneNumber.value(),
	}
	req.Normalize()
	return req
}

// identifier accepts a JSON string or a bare number. Clients commonly send
// phone numbers as numbers.
type identifier string

func (i *identifier) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty identifier")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = identifier(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*i = identifier(n.String())
		return nil
	default:
		return fmt.Errorf("identifier must be a string or number, got %s", data)
	}
}

func (i *identifier) value() *string {
	if i == nil {
		return nil
	}
	s := string(*i)
	return &s
}
