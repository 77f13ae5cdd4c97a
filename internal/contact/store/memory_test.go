package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"identify/internal/contact/models"
	"identify/internal/contact/service"
	"identify/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.now = time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewInMemory(WithClock(func() time.Time { return s.now }))
	s.ctx = context.Background()
}

func strPtr(v string) *string { return &v }

func (s *InMemoryStoreSuite) insert(email, phone string, linkedID *int64, createdAt time.Time) *models.Contact {
	c := &models.Contact{LinkedID: linkedID, CreatedAt: createdAt, LinkPrecedence: models.LinkPrecedencePrimary}
	if linkedID != nil {
		c.LinkPrecedence = models.LinkPrecedenceSecondary
	}
	if email != "" {
		c.Email = strPtr(email)
	}
	if phone != "" {
		c.PhoneNumber = strPtr(phone)
	}
	saved, err := s.store.Insert(s.ctx, c)
	s.Require().NoError(err)
	return saved
}

func (s *InMemoryStoreSuite) TestInsertAssignsIncreasingIDs() {
	first := s.insert("a@example.com", "", nil, time.Time{})
	second := s.insert("b@example.com", "", nil, time.Time{})

	s.Equal(int64(1), first.ID)
	s.Equal(int64(2), second.ID)
	s.Equal(s.now, first.CreatedAt, "created_at defaults to the store clock")
	s.Equal(first.CreatedAt, first.UpdatedAt)
}

func (s *InMemoryStoreSuite) TestCreatedAtFollowsIDOrder() {
	first := s.insert("a@example.com", "", nil, time.Time{})
	s.now = s.now.Add(-time.Minute) // clock stepped backwards
	second := s.insert("b@example.com", "", nil, time.Time{})

	s.False(second.CreatedAt.Before(first.CreatedAt))

	oldest, err := s.store.FindOldestPrimaryAmong(s.ctx, []int64{first.ID, second.ID})
	s.Require().NoError(err)
	s.Equal(first.ID, oldest.ID)
}

func (s *InMemoryStoreSuite) TestLockRootsReturnsCurrentState() {
	one := s.insert("a@example.com", "", nil, time.Time{})
	two := s.insert("b@example.com", "", nil, time.Time{})
	s.Require().NoError(s.store.UpdatePrimaryToSecondary(s.ctx, []int64{two.ID}, one.ID))

	roots, err := s.store.LockRoots(s.ctx, []int64{two.ID, one.ID, 99})
	s.Require().NoError(err)
	s.Equal([]int64{one.ID, two.ID}, ids(roots))
	s.True(roots[0].IsPrimary())
	s.False(roots[1].IsPrimary())
}

func (s *InMemoryStoreSuite) TestReadsReturnCopies() {
	s.insert("a@example.com", "111", nil, time.Time{})

	found, err := s.store.FindByEmailOrPhone(s.ctx, strPtr("a@example.com"), nil)
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	*found[0].Email = "mutated@example.com"

	again, err := s.store.FindByEmailOrPhone(s.ctx, strPtr("a@example.com"), nil)
	s.Require().NoError(err)
	s.Len(again, 1)
}

func (s *InMemoryStoreSuite) TestFindByEmailOrPhone() {
	one := s.insert("a@example.com", "111", nil, time.Time{})
	two := s.insert("b@example.com", "222", nil, time.Time{})
	s.insert("", "111", &one.ID, time.Time{})

	s.Run("either field matches", func() {
		found, err := s.store.FindByEmailOrPhone(s.ctx, strPtr("b@example.com"), strPtr("111"))
		s.Require().NoError(err)
		s.Equal([]int64{1, 2, 3}, ids(found))
	})

	s.Run("nil fields are excluded", func() {
		found, err := s.store.FindByEmailOrPhone(s.ctx, nil, strPtr("222"))
		s.Require().NoError(err)
		s.Equal([]int64{two.ID}, ids(found))
	})

	s.Run("no fields matches nothing", func() {
		found, err := s.store.FindByEmailOrPhone(s.ctx, nil, nil)
		s.Require().NoError(err)
		s.Empty(found)
	})
}

func (s *InMemoryStoreSuite) TestFindOldestPrimaryAmong() {
	base := s.now.Add(-time.Hour)
	s.insert("a@example.com", "", nil, base.Add(time.Minute))
	s.insert("b@example.com", "", nil, base)
	s.insert("c@example.com", "", nil, base)

	oldest, err := s.store.FindOldestPrimaryAmong(s.ctx, []int64{1, 2, 3})
	s.Require().NoError(err)
	s.Equal(int64(2), oldest.ID, "earliest created_at wins, ties by smaller id")

	_, err = s.store.FindOldestPrimaryAmong(s.ctx, []int64{42})
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *InMemoryStoreSuite) TestDemoteAndRelink() {
	survivor := s.insert("a@example.com", "", nil, time.Time{})
	loser := s.insert("b@example.com", "", nil, time.Time{})
	child := s.insert("c@example.com", "", &loser.ID, time.Time{})

	created := s.now
	later := s.now.Add(time.Minute)
	s.now = later
	s.Require().NoError(s.store.UpdatePrimaryToSecondary(s.ctx, []int64{survivor.ID, loser.ID}, survivor.ID))
	s.Require().NoError(s.store.UpdateSecondaryLinks(s.ctx, []int64{loser.ID}, survivor.ID))

	group, err := s.store.FindGroupByRoot(s.ctx, survivor.ID)
	s.Require().NoError(err)
	s.Equal([]int64{survivor.ID, loser.ID, child.ID}, ids(group))

	s.True(group[0].IsPrimary(), "survivor is never demoted")
	for _, c := range group[1:] {
		s.Equal(models.LinkPrecedenceSecondary, c.LinkPrecedence)
		s.Equal(survivor.ID, *c.LinkedID)
		s.Equal(later, c.UpdatedAt)
		s.Equal(created, c.CreatedAt, "created_at never changes")
	}
}

func (s *InMemoryStoreSuite) TestRunInTxHonorsCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.store.RunInTx(ctx, func(context.Context, service.Store) error {
		called = true
		return nil
	})
	s.ErrorIs(err, context.Canceled)
	s.False(called)
}

func (s *InMemoryStoreSuite) TestRunInTxPropagatesError() {
	boom := errors.New("boom")
	err := s.store.RunInTx(s.ctx, func(ctx context.Context, store service.Store) error {
		_, err := store.Insert(ctx, &models.Contact{Email: strPtr("a@example.com"), LinkPrecedence: models.LinkPrecedencePrimary})
		s.Require().NoError(err)
		return boom
	})
	s.ErrorIs(err, boom)
}

func (s *InMemoryStoreSuite) TestRunInTxHandsFnItsDeadline() {
	s.store = NewInMemory(WithTxTimeout(20 * time.Millisecond))

	err := s.store.RunInTx(context.Background(), func(ctx context.Context, _ service.Store) error {
		_, hasDeadline := ctx.Deadline()
		s.True(hasDeadline)
		<-ctx.Done()
		return ctx.Err()
	})
	s.ErrorIs(err, context.DeadlineExceeded)
}

func ids(contacts []*models.Contact) []int64 {
	out := make([]int64, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, c.ID)
	}
	return out
}
