package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProfileView(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	p := &Profile{
		ID:               7,
		AnnualIncome:     6000000,
		Savings:          2000000,
		InterestRate:     decimal.RequireFromString("3.14"),
		LoanTermYears:    35,
		DownPaymentRatio: 10,
		CreatedAt:        time.Date(2024, 5, 1, 18, 30, 0, 123456789, tokyo),
	}

	v := p.View()

	assert.Equal(t, int64(7), v.ID)
	assert.Equal(t, 3.14, v.InterestRate)
	assert.Equal(t, "2024-05-01T09:30:00.123Z", v.CreatedAt)
}
