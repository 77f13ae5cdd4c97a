package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"identify/internal/contact/metrics"
	"identify/internal/contact/models"
	dErrors "identify/pkg/domain-errors"
	"identify/pkg/requestcontext"
)

var tracer = otel.Tracer("identify/internal/contact/service")

const defaultPublishTimeout = 2 * time.Second

// Service resolves identifier pairs into consolidated identities.
type Service struct {
	tx        ContactStoreTx
	locker    IdentifierLocker
	logger    *slog.Logger
	publisher EventPublisher
	metrics   *metrics.Metrics

	publishTimeout time.Duration
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithEventPublisher(publisher EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithPublishTimeout bounds how long a committed request waits on event delivery.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// New constructs a Service. Both the transaction boundary and the locker are
// required; concurrent resolutions rely on them for serialization.
func New(tx ContactStoreTx, locker IdentifierLocker, opts ...Option) *Service {
	s := &Service{tx: tx, locker: locker, publishTimeout: defaultPublishTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Identify looks up every contact matching the request, merges the groups it
// bridges, records new information, and returns the consolidated identity.
func (s *Service) Identify(ctx context.Context, req models.IdentifyRequest) (*models.Identity, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "contact.Identify")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	identity, events, err := s.identify(ctx, req)
	s.observeIdentify(start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		s.logFailure(ctx, req, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("contact.primary_id", identity.PrimaryContactID),
		attribute.Int("contact.secondary_count", len(identity.SecondaryContactIDs)),
	)
	s.publish(ctx, events)
	return identity, nil
}

func (s *Service) identify(ctx context.Context, req models.IdentifyRequest) (*models.Identity, []models.ContactEvent, error) {
	keys := req.LockKeys()

	lockStart := time.Now()
	release, err := s.locker.Acquire(ctx, keys)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to acquire identifier lock")
	}
	defer release()
	if s.metrics != nil {
		s.metrics.ObserveLockWait(lockStart)
	}

	var (
		identity *models.Identity
		events   []models.ContactEvent
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		// Reset captured state: a runner may call fn more than once.
		identity, events = nil, nil

		if err := store.LockIdentifiers(ctx, keys); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to lock identifiers")
		}

		matches, err := lockMatchRoots(ctx, store, req.Email, req.PhoneNumber)
		if err != nil {
			return err
		}

		res, err := resolveRoot(ctx, store, matches)
		if err != nil {
			return err
		}
		if len(res.demoted) > 0 {
			events = append(events, s.newEvent(ctx, models.ContactEvent{
				Type:             models.EventContactsMerged,
				PrimaryContactID: res.rootID,
				DemotedIDs:       res.demoted,
			}))
		}

		rootID := res.rootID
		if !res.found {
			primary, err := AddContact(ctx, store, req.Email, req.PhoneNumber, nil, models.LinkPrecedencePrimary)
			if err != nil {
				return err
			}
			rootID = primary.ID
			events = append(events, s.newEvent(ctx, models.ContactEvent{
				Type:             models.EventContactCreated,
				ContactID:        primary.ID,
				PrimaryContactID: primary.ID,
				LinkPrecedence:   models.LinkPrecedencePrimary,
			}))
		}

		group, err := store.FindGroupByRoot(ctx, rootID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contact group")
		}
		if err := checkGroupRoot(rootID, group); err != nil {
			return err
		}

		if HasNewInformation(group, req.Email, req.PhoneNumber) {
			secondary, err := AddContact(ctx, store, req.Email, req.PhoneNumber, &rootID, models.LinkPrecedenceSecondary)
			if err != nil {
				return err
			}
			group = append(group, secondary)
			events = append(events, s.newEvent(ctx, models.ContactEvent{
				Type:             models.EventContactCreated,
				ContactID:        secondary.ID,
				PrimaryContactID: rootID,
				LinkPrecedence:   models.LinkPrecedenceSecondary,
			}))
		}

		identity = BuildIdentity(rootID, group)
		return nil
	})
	if err != nil {
		if _, coded := dErrors.As(err); !coded {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "identify transaction failed")
		}
		return nil, nil, err
	}
	return identity, events, nil
}

// checkGroupRoot verifies that the group loaded for rootID is anchored by a
// primary with that id.
func checkGroupRoot(rootID int64, group []*models.Contact) error {
	for _, c := range group {
		if c.ID == rootID {
			if c.IsPrimary() {
				return nil
			}
			break
		}
	}
	return dErrors.Wrap(ErrNoPrimaryFound, dErrors.CodeConsistency, "identity group has no primary contact")
}

func (s *Service) newEvent(ctx context.Context, event models.ContactEvent) models.ContactEvent {
	event.RequestID = requestcontext.RequestID(ctx)
	event.OccurredAt = requestcontext.Now(ctx)
	return event
}

// publish runs after commit. Downstream delivery is best effort and never
// fails a resolution that already committed. It runs on its own deadline so a
// stalled broker cannot hold the response for the request's full timeout.
func (s *Service) publish(ctx context.Context, events []models.ContactEvent) {
	if len(events) == 0 {
		return
	}
	if s.metrics != nil {
		s.metrics.RecordEvents(events)
	}
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, events); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to publish contact events",
			"request_id", requestcontext.RequestID(ctx),
			"event_count", len(events),
			"error", err,
		)
	}
}

func (s *Service) logFailure(ctx context.Context, req models.IdentifyRequest, err error) {
	if s.logger == nil {
		return
	}
	requestID := requestcontext.RequestID(ctx)
	if dErrors.HasCode(err, dErrors.CodeConsistency) {
		s.logger.ErrorContext(ctx, "contact graph integrity fault",
			"request_id", requestID,
			"log_type", "integrity",
			"identifiers", req.String(),
			"error", err,
		)
		return
	}
	s.logger.ErrorContext(ctx, "identify failed",
		"request_id", requestID,
		"code", dErrors.CodeOf(err),
		"identifiers", req.String(),
		"error", err,
	)
}

func (s *Service) observeIdentify(start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
	}
	s.metrics.ObserveIdentify(start, outcome)
}
