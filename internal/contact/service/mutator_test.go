package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"identify/internal/contact/models"
	"identify/internal/contact/service"
	"identify/internal/contact/service/mocks"
	dErrors "identify/pkg/domain-errors"
)

func TestAddContact(t *testing.T) {
	t.Run("inserts and returns the stored contact", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStore(ctrl)
		root := int64(3)
		store.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, c *models.Contact) (*models.Contact, error) {
				assert.Equal(t, models.LinkPrecedenceSecondary, c.LinkPrecedence)
				assert.Equal(t, int64(3), *c.LinkedID)
				saved := c.Clone()
				saved.ID = 11
				return saved, nil
			})

		saved, err := service.AddContact(context.Background(), store, ptr("a@example.com"), nil, &root, models.LinkPrecedenceSecondary)
		require.NoError(t, err)
		assert.Equal(t, int64(11), saved.ID)
	})

	t.Run("store failure is a persistence error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStore(ctrl)
		storeErr := errors.New("disk full")
		store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil, storeErr).Times(1)

		_, err := service.AddContact(context.Background(), store, ptr("a@example.com"), nil, nil, models.LinkPrecedencePrimary)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("secondary without link is rejected before the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStore(ctrl)

		_, err := service.AddContact(context.Background(), store, ptr("a@example.com"), nil, nil, models.LinkPrecedenceSecondary)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestHasNewInformation(t *testing.T) {
	group := []*models.Contact{
		{ID: 1, Email: ptr("a@example.com"), PhoneNumber: ptr("111"), LinkPrecedence: models.LinkPrecedencePrimary},
		{ID: 2, Email: ptr("b@example.com"), LinkPrecedence: models.LinkPrecedenceSecondary},
	}

	tests := []struct {
		name  string
		email *string
		phone *string
		want  bool
	}{
		{name: "both known", email: ptr("b@example.com"), phone: ptr("111"), want: false},
		{name: "new email", email: ptr("c@example.com"), phone: ptr("111"), want: true},
		{name: "new phone", email: ptr("a@example.com"), phone: ptr("222"), want: true},
		{name: "known email alone", email: ptr("a@example.com"), want: false},
		{name: "known phone alone", phone: ptr("111"), want: false},
		{name: "new phone alone", phone: ptr("999"), want: true},
		{name: "nothing supplied", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.HasNewInformation(group, tt.email, tt.phone))
		})
	}
}
