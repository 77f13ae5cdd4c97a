package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"identify/internal/contact/models"
	"identify/pkg/platform/sentinel"
)

// dbtx is the subset of *sql.DB and *sql.Tx the store needs.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const contactColumns = `id, email, phone_number, linked_id, link_precedence, created_at, updated_at`

// SQLSTATE codes for failures that succeed when the transaction is rerun.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsRetryable reports whether err aborted the transaction for a reason that a
// fresh attempt can clear: a serialization failure or a detected deadlock.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}

// PostgresStore persists contacts in PostgreSQL.
// This store is pure I/O; resolution rules live in the service.
type PostgresStore struct {
	db dbtx

	// inTx enables row and advisory locks, which only hold inside a transaction.
	// Outside one LockRoots degrades to a plain read.
	inTx bool
}

// NewPostgres constructs a PostgreSQL-backed contact store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx constructs a store bound to an open transaction.
func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{db: tx, inTx: true}
}

// LockIdentifiers takes a transaction-scoped advisory lock per key. Keys must
// arrive sorted so concurrent transactions lock in the same order.
func (s *PostgresStore) LockIdentifiers(ctx context.Context, keys []string) error {
	if !s.inTx {
		return nil
	}
	for _, key := range keys {
		if _, err := s.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
			return fmt.Errorf("lock identifier: %w", err)
		}
	}
	return nil
}

// LockRoots takes FOR UPDATE locks on ids in id order. Every writer to a group
// locks its root first, and matched rows themselves are never locked, so
// secondaries are only ever row-locked by the holder of their root.
func (s *PostgresStore) LockRoots(ctx context.Context, ids []int64) ([]*models.Contact, error) {
	if len(ids) == 0 {
		return []*models.Contact{}, nil
	}
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = ANY($1) ORDER BY id`
	if s.inTx {
		query += ` FOR UPDATE`
	}
	contacts, err := s.queryContacts(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("lock roots: %w", err)
	}
	return contacts, nil
}

func (s *PostgresStore) FindByEmailOrPhone(ctx context.Context, email, phoneNumber *string) ([]*models.Contact, error) {
	var (
		clauses []string
		args    []any
	)
	if email != nil {
		args = append(args, *email)
		clauses = append(clauses, fmt.Sprintf("email = $%d", len(args)))
	}
	if phoneNumber != nil {
		args = append(args, *phoneNumber)
		clauses = append(clauses, fmt.Sprintf("phone_number = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return []*models.Contact{}, nil
	}

	query := `SELECT ` + contactColumns + ` FROM contacts WHERE ` + strings.Join(clauses, " OR ") + ` ORDER BY id`
	contacts, err := s.queryContacts(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find contacts by email or phone: %w", err)
	}
	return contacts, nil
}

func (s *PostgresStore) FindGroupByRoot(ctx context.Context, rootID int64) ([]*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 OR linked_id = $1 ORDER BY id`
	contacts, err := s.queryContacts(ctx, query, rootID)
	if err != nil {
		return nil, fmt.Errorf("find contact group: %w", err)
	}
	return contacts, nil
}

func (s *PostgresStore) FindOldestPrimaryAmong(ctx context.Context, ids []int64) (*models.Contact, error) {
	if len(ids) == 0 {
		return nil, sentinel.ErrNotFound
	}
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = ANY($1) AND link_precedence = 'primary'
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`
	contact, err := scanContact(s.db.QueryRowContext(ctx, query, pq.Array(ids)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find oldest primary: %w", err)
	}
	return contact, nil
}

func (s *PostgresStore) UpdatePrimaryToSecondary(ctx context.Context, ids []int64, survivorID int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		UPDATE contacts
		SET link_precedence = 'secondary', linked_id = $1, updated_at = clock_timestamp()
		WHERE id = ANY($2) AND id <> $1 AND link_precedence = 'primary'
	`
	if _, err := s.db.ExecContext(ctx, query, survivorID, pq.Array(ids)); err != nil {
		return fmt.Errorf("demote primaries: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateSecondaryLinks(ctx context.Context, fromIDs []int64, toID int64) error {
	if len(fromIDs) == 0 {
		return nil
	}
	query := `
		UPDATE contacts
		SET linked_id = $1, updated_at = clock_timestamp()
		WHERE link_precedence = 'secondary' AND linked_id = ANY($2)
	`
	if _, err := s.db.ExecContext(ctx, query, toID, pq.Array(fromIDs)); err != nil {
		return fmt.Errorf("relink secondaries: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	if contact == nil {
		return nil, fmt.Errorf("contact is required")
	}
	query := `
		INSERT INTO contacts (email, phone_number, linked_id, link_precedence, created_at, updated_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, clock_timestamp()), COALESCE($5, clock_timestamp()))
		RETURNING ` + contactColumns
	var createdAt sql.NullTime
	if !contact.CreatedAt.IsZero() {
		createdAt = sql.NullTime{Time: contact.CreatedAt, Valid: true}
	}
	saved, err := scanContact(s.db.QueryRowContext(ctx, query,
		contact.Email,
		contact.PhoneNumber,
		contact.LinkedID,
		string(contact.LinkPrecedence),
		createdAt,
	))
	if err != nil {
		return nil, fmt.Errorf("insert contact: %w", err)
	}
	return saved, nil
}

// All returns every contact in id order.
func (s *PostgresStore) All(ctx context.Context) ([]*models.Contact, error) {
	contacts, err := s.queryContacts(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (s *PostgresStore) queryContacts(ctx context.Context, query string, args ...any) ([]*models.Contact, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]*models.Contact, 0)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return contacts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(row scanner) (*models.Contact, error) {
	var (
		c          models.Contact
		email      sql.NullString
		phone      sql.NullString
		linkedID   sql.NullInt64
		precedence string
	)
	if err := row.Scan(&c.ID, &email, &phone, &linkedID, &precedence, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	p, err := models.ParseLinkPrecedence(precedence)
	if err != nil {
		return nil, fmt.Errorf("contact %d: %w", c.ID, err)
	}
	c.LinkPrecedence = p
	if email.Valid {
		c.Email = &email.String
	}
	if phone.Valid {
		c.PhoneNumber = &phone.String
	}
	if linkedID.Valid {
		c.LinkedID = &linkedID.Int64
	}
	return &c, nil
}
