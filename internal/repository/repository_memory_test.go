package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/profile-service/internal/models"
)

func validInput() models.ProfileInput {
	return models.ProfileInput{
		AnnualIncome:     6000000,
		Savings:          2000000,
		InterestRate:     decimal.NewFromFloat(3.14),
		LoanTermYears:    35,
		DownPaymentRatio: 10,
	}
}

func TestMemoryRepository_EmptyTable(t *testing.T) {
	p, err := NewMemoryRepository().FetchLatest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestMemoryRepository_RoundTripRate(t *testing.T) {
	repo := NewMemoryRepository()

	inserted, err := repo.Insert(context.Background(), validInput())
	require.NoError(t, err)

	latest, err := repo.FetchLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, inserted.ID, latest.ID)
	assert.Equal(t, 3.14, latest.View().InterestRate)
}

func TestMemoryRepository_LatestWins(t *testing.T) {
	repo := NewMemoryRepository()

	first, err := repo.Insert(context.Background(), validInput())
	require.NoError(t, err)
	second, err := repo.Insert(context.Background(), validInput())
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
	assert.False(t, second.CreatedAt.Before(first.CreatedAt))

	latest, err := repo.FetchLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestMemoryRepository_TieBreakByID(t *testing.T) {
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewMemoryRepository().WithClock(func() time.Time { return frozen })

	for i := 0; i < 3; i++ {
		_, err := repo.Insert(context.Background(), validInput())
		require.NoError(t, err)
	}

	latest, err := repo.FetchLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), latest.ID)
}

func TestMemoryRepository_RoundsRateToScale(t *testing.T) {
	repo := NewMemoryRepository()
	in := validInput()
	in.InterestRate = decimal.RequireFromString("3.145")

	p, err := repo.Insert(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "3.15", p.InterestRate.StringFixed(2))
}

func TestMemoryRepository_CheckConstraint(t *testing.T) {
	repo := NewMemoryRepository()
	in := validInput()
	in.LoanTermYears = 0

	_, err := repo.Insert(context.Background(), in)
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, 0, repo.Len())
}

func TestMemoryRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryRepository().FetchLatest(ctx)
	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
}
