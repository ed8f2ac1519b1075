package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Dan9191/profile-service/internal/models"
	"github.com/shopspring/decimal"
)

var maxRate = decimal.NewFromInt(20)

// MemoryRepository is an in-memory implementation of ProfileStore.
// It applies the same range checks and rate scale as the profiles table.
type MemoryRepository struct {
	mu     sync.Mutex
	rows   []models.Profile
	nextID int64
	now    func() time.Time
}

// NewMemoryRepository creates an empty in-memory profile store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, now: time.Now}
}

// WithClock replaces the clock used for created_at.
func (r *MemoryRepository) WithClock(now func() time.Time) *MemoryRepository {
	r.now = now
	return r
}

// Len reports how many rows were inserted.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *MemoryRepository) FetchLatest(ctx context.Context) (*models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StorageError{Op: "fetch latest profile", Err: err}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *models.Profile
	for i := range r.rows {
		row := &r.rows[i]
		if latest == nil || row.CreatedAt.After(latest.CreatedAt) ||
			(row.CreatedAt.Equal(latest.CreatedAt) && row.ID > latest.ID) {
			latest = row
		}
	}
	if latest == nil {
		return nil, nil
	}
	p := *latest
	return &p, nil
}

func (r *MemoryRepository) Insert(ctx context.Context, input models.ProfileInput) (*models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StorageError{Op: "insert profile", Err: err}
	}
	rate := input.InterestRate.Round(2)
	if err := checkRow(input, rate); err != nil {
		return nil, &StorageError{Op: "insert profile", Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p := models.Profile{
		ID:               r.nextID,
		AnnualIncome:     input.AnnualIncome,
		Savings:          input.Savings,
		InterestRate:     rate,
		LoanTermYears:    input.LoanTermYears,
		DownPaymentRatio: input.DownPaymentRatio,
		CreatedAt:        r.now(),
	}
	r.nextID++
	r.rows = append(r.rows, p)
	return &p, nil
}

func checkRow(input models.ProfileInput, rate decimal.Decimal) error {
	switch {
	case input.AnnualIncome < 0:
		return fmt.Errorf("annual_income check violated: %d", input.AnnualIncome)
	case input.Savings < 0:
		return fmt.Errorf("savings check violated: %d", input.Savings)
	case rate.IsNegative() || rate.GreaterThan(maxRate):
		return fmt.Errorf("interest_rate check violated: %s", rate)
	case input.LoanTermYears < 1 || input.LoanTermYears > 50:
		return fmt.Errorf("loan_term_years check violated: %d", input.LoanTermYears)
	case input.DownPaymentRatio < 0 || input.DownPaymentRatio > 100:
		return fmt.Errorf("down_payment_ratio check violated: %d", input.DownPaymentRatio)
	}
	return nil
}
