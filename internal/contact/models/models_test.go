package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "identify/pkg/domain-errors"
)

func strPtr(v string) *string { return &v }

func TestNewContact(t *testing.T) {
	root := int64(1)
	tests := []struct {
		name       string
		email      *string
		phone      *string
		linkedID   *int64
		precedence LinkPrecedence
		wantErr    bool
	}{
		{name: "primary", email: strPtr("a@example.com"), precedence: LinkPrecedencePrimary},
		{name: "secondary", phone: strPtr("111"), linkedID: &root, precedence: LinkPrecedenceSecondary},
		{name: "primary with link", email: strPtr("a@example.com"), linkedID: &root, precedence: LinkPrecedencePrimary, wantErr: true},
		{name: "secondary without link", email: strPtr("a@example.com"), precedence: LinkPrecedenceSecondary, wantErr: true},
		{name: "no identifiers", precedence: LinkPrecedencePrimary, wantErr: true},
		{name: "unknown precedence", email: strPtr("a@example.com"), precedence: "tertiary", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContact(tt.email, tt.phone, tt.linkedID, tt.precedence)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.precedence, c.LinkPrecedence)
		})
	}
}

func TestContactRootIDAndClone(t *testing.T) {
	root := int64(3)
	secondary := &Contact{ID: 7, Email: strPtr("a@example.com"), LinkedID: &root, LinkPrecedence: LinkPrecedenceSecondary}
	assert.Equal(t, int64(3), secondary.RootID())
	assert.Equal(t, int64(3), (&Contact{ID: 3, LinkPrecedence: LinkPrecedencePrimary}).RootID())

	clone := secondary.Clone()
	*clone.Email = "changed@example.com"
	*clone.LinkedID = 9
	assert.Equal(t, "a@example.com", *secondary.Email)
	assert.Equal(t, int64(3), *secondary.LinkedID)
}

func TestParseLinkPrecedence(t *testing.T) {
	p, err := ParseLinkPrecedence("secondary")
	require.NoError(t, err)
	assert.Equal(t, LinkPrecedenceSecondary, p)

	_, err = ParseLinkPrecedence("Primary")
	assert.Error(t, err)
}

func TestIdentifyRequest(t *testing.T) {
	t.Run("normalize trims and drops blanks", func(t *testing.T) {
		req := IdentifyRequest{Email: strPtr("  a@example.com "), PhoneNumber: strPtr("   ")}
		req.Normalize()
		require.NotNil(t, req.Email)
		assert.Equal(t, "a@example.com", *req.Email)
		assert.Nil(t, req.PhoneNumber)
		assert.NoError(t, req.Validate())
	})

	t.Run("validate requires an identifier", func(t *testing.T) {
		req := IdentifyRequest{}
		err := req.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("lock keys are sorted and prefixed", func(t *testing.T) {
		req := IdentifyRequest{Email: strPtr("z@example.com"), PhoneNumber: strPtr("111")}
		assert.Equal(t, []string{"email:z@example.com", "phone:111"}, req.LockKeys())

		phoneOnly := IdentifyRequest{PhoneNumber: strPtr("111")}
		assert.Equal(t, []string{"phone:111"}, phoneOnly.LockKeys())
	})

	t.Run("string masks identifiers", func(t *testing.T) {
		req := IdentifyRequest{Email: strPtr("doc@hillvalley.edu")}
		s := req.String()
		assert.NotContains(t, s, "hillvalley")
		assert.Contains(t, s, "phone=<none>")
	})
}
