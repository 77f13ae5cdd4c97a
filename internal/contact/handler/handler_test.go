package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identify/internal/contact/lock"
	"identify/internal/contact/models"
	"identify/internal/contact/service"
	"identify/internal/contact/store"
	"identify/internal/platform/middleware"
	dErrors "identify/pkg/domain-errors"
	"identify/pkg/testutil"
)

type identifyResponse struct {
	Contact struct {
		PrimaryContactID    int64    `json:"primaryContactId"`
		Emails              []string `json:"emails"`
		PhoneNumbers        []string `json:"phoneNumbers"`
		SecondaryContactIDs []int64  `json:"secondaryContactIds"`
	} `json:"contact"`
}

func newRouter(t *testing.T, svc Service) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(logger))
	New(svc, logger).Register(r)
	return r
}

func newContactRouter(t *testing.T) http.Handler {
	t.Helper()
	return newRouter(t, service.New(store.NewInMemory(), lock.NewLocal(time.Second)))
}

func identify(t *testing.T, router http.Handler, body any) *identifyResponse {
	t.Helper()
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/identify", body))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return testutil.UnmarshalResponse[identifyResponse](t, rr)
}

func TestIdentifyScenarios(t *testing.T) {
	router := newContactRouter(t)

	testutil.Given(t, "an empty store", func(t *testing.T) {
		resp := identify(t, router, map[string]string{"email": "lorraine@hillvalley.edu", "phoneNumber": "123456"})
		assert.Equal(t, int64(1), resp.Contact.PrimaryContactID)
		assert.Equal(t, []string{"lorraine@hillvalley.edu"}, resp.Contact.Emails)
		assert.Equal(t, []string{"123456"}, resp.Contact.PhoneNumbers)
		assert.Equal(t, []int64{}, resp.Contact.SecondaryContactIDs)
	})

	testutil.Given(t, "a new email on a known phone", func(t *testing.T) {
		resp := identify(t, router, map[string]string{"email": "mcfly@hillvalley.edu", "phoneNumber": "123456"})
		assert.Equal(t, int64(1), resp.Contact.PrimaryContactID)
		assert.Equal(t, []string{"lorraine@hillvalley.edu", "mcfly@hillvalley.edu"}, resp.Contact.Emails)
		assert.Equal(t, []int64{2}, resp.Contact.SecondaryContactIDs)
	})

	testutil.Given(t, "a request bridging two primaries", func(t *testing.T) {
		identify(t, router, map[string]string{"email": "biffsucks@hillvalley.edu", "phoneNumber": "717171"})
		resp := identify(t, router, map[string]string{"email": "lorraine@hillvalley.edu", "phoneNumber": "717171"})

		testutil.Then(t, "the older primary survives", func(t *testing.T) {
			assert.Equal(t, int64(1), resp.Contact.PrimaryContactID)
			assert.Equal(t, []string{"lorraine@hillvalley.edu", "mcfly@hillvalley.edu", "biffsucks@hillvalley.edu"}, resp.Contact.Emails)
			assert.Equal(t, []string{"123456", "717171"}, resp.Contact.PhoneNumbers)
			assert.Equal(t, []int64{2, 3}, resp.Contact.SecondaryContactIDs)
		})

		testutil.Then(t, "a phone-only lookup resolves to the survivor", func(t *testing.T) {
			resp := identify(t, router, map[string]any{"phoneNumber": "717171", "email": nil})
			assert.Equal(t, int64(1), resp.Contact.PrimaryContactID)
		})
	})
}

func TestIdentifyAcceptsNumericPhone(t *testing.T) {
	router := newContactRouter(t)

	first := testutil.DoRequest(router, testutil.NewRawRequest(t, http.MethodPost, "/identify", `{"phoneNumber": 123456}`))
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())

	resp := identify(t, router, map[string]string{"phoneNumber": "123456"})
	assert.Equal(t, []string{"123456"}, resp.Contact.PhoneNumbers)
	assert.Empty(t, resp.Contact.SecondaryContactIDs)
}

func TestIdentifyBadRequests(t *testing.T) {
	router := newContactRouter(t)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "both absent", body: `{}`, message: "At least one of email or phoneNumber must be provided."},
		{name: "both null", body: `{"email": null, "phoneNumber": null}`, message: "At least one of email or phoneNumber must be provided."},
		{name: "both blank", body: `{"email": "  ", "phoneNumber": ""}`, message: "At least one of email or phoneNumber must be provided."},
		{name: "malformed json", body: `{"email":`, message: "Invalid JSON body."},
		{name: "wrong type", body: `{"email": true}`, message: "Invalid JSON body."},
		{name: "missing body", body: ``, message: "Request body is missing."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRawRequest(t, http.MethodPost, "/identify", tt.body))
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, tt.message)
		})
	}
}

type failingService struct {
	err error
}

func (s failingService) Identify(context.Context, models.IdentifyRequest) (*models.Identity, error) {
	return nil, s.err
}

func TestIdentifyInternalFailuresAreGeneric(t *testing.T) {
	tests := map[string]error{
		"consistency fault": dErrors.Wrap(service.ErrNoPrimaryFound, dErrors.CodeConsistency, "identity group has no primary contact"),
		"persistence error": dErrors.Wrap(errors.New("pq: relation missing"), dErrors.CodeInternal, "failed to insert contact"),
		"lock unavailable":  dErrors.Wrap(errors.New("lock timeout"), dErrors.CodeUnavailable, "failed to acquire identifier lock"),
		"uncoded error":     errors.New("something broke"),
	}
	for name, err := range tests {
		t.Run(name, func(t *testing.T) {
			router := newRouter(t, failingService{err: err})
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/identify", map[string]string{"email": "a@example.com"}))
			testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "Internal server error")
		})
	}
}

func TestHello(t *testing.T) {
	router := newContactRouter(t)
	rr := testutil.DoRequest(router, testutil.NewRawRequest(t, http.MethodGet, "/", ""))

	require.Equal(t, http.StatusOK, rr.Code)
	resp := testutil.UnmarshalResponse[HelloResponse](t, rr)
	assert.Equal(t, "Hello, World!", resp.Message)
}
