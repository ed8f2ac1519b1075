package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/Dan9191/profile-service/internal/models"
)

//go:embed schema.sql
var schema string

// ProfileStore is the persistence gateway used by the profile service
type ProfileStore interface {
	FetchLatest(ctx context.Context) (*models.Profile, error)
	Insert(ctx context.Context, input models.ProfileInput) (*models.Profile, error)
}

// StorageError reports a failed store operation. The cause is for logs only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the profiles table and its index when missing
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return &StorageError{Op: "migrate schema", Err: err}
	}
	return nil
}

// Ping checks database connectivity
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// FetchLatest returns the newest profile, or nil when none was saved yet.
// Rows sharing created_at are ordered by id.
func (r *Repository) FetchLatest(ctx context.Context) (*models.Profile, error) {
	query := `
		SELECT id, annual_income, savings, interest_rate, loan_term_years, down_payment_ratio, created_at
		FROM profiles
		ORDER BY created_at DESC, id DESC
		LIMIT 1`
	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query).
		Scan(&p.ID, &p.AnnualIncome, &p.Savings, &p.InterestRate, &p.LoanTermYears, &p.DownPaymentRatio, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "fetch latest profile", Err: err}
	}
	return p, nil
}

// Insert stores a new profile row and returns it with generated fields
func (r *Repository) Insert(ctx context.Context, input models.ProfileInput) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (annual_income, savings, interest_rate, loan_term_years, down_payment_ratio, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING id, annual_income, savings, interest_rate, loan_term_years, down_payment_ratio, created_at`
	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query,
		input.AnnualIncome, input.Savings, input.InterestRate, input.LoanTermYears, input.DownPaymentRatio).
		Scan(&p.ID, &p.AnnualIncome, &p.Savings, &p.InterestRate, &p.LoanTermYears, &p.DownPaymentRatio, &p.CreatedAt)
	if err != nil {
		return nil, &StorageError{Op: "insert profile", Err: err}
	}
	return p, nil
}
