package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout renders createdAt in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Profile is a persisted financial profile row. Rows are never updated.
type Profile struct {
	ID               int64
	AnnualIncome     int64
	Savings          int64
	InterestRate     decimal.Decimal
	LoanTermYears    int
	DownPaymentRatio int
	CreatedAt        time.Time
}

// ProfileInput carries validated values for a new row
type ProfileInput struct {
	AnnualIncome     int64
	Savings          int64
	InterestRate     decimal.Decimal
	LoanTermYears    int
	DownPaymentRatio int
}

// ProfileView is the JSON representation returned by the API
type ProfileView struct {
	ID               int64   `json:"id"`
	AnnualIncome     int64   `json:"annualIncome"`
	Savings          int64   `json:"savings"`
	InterestRate     float64 `json:"interestRate"`
	LoanTermYears    int     `json:"loanTermYears"`
	DownPaymentRatio int     `json:"downPaymentRatio"`
	CreatedAt        string  `json:"createdAt"`
}

// View converts the stored row into its external shape.
func (p *Profile) View() ProfileView {
	return ProfileView{
		ID:               p.ID,
		AnnualIncome:     p.AnnualIncome,
		Savings:          p.Savings,
		InterestRate:     p.InterestRate.InexactFloat64(),
		LoanTermYears:    p.LoanTermYears,
		DownPaymentRatio: p.DownPaymentRatio,
		CreatedAt:        p.CreatedAt.UTC().Format(TimestampLayout),
	}
}

// ProfileRequest is the body posted by the profile form. Values are plain
// numbers; the server decides whether they are acceptable.
type ProfileRequest struct {
	AnnualIncome     float64 `json:"annualIncome"`
	Savings          float64 `json:"savings"`
	InterestRate     float64 `json:"interestRate"`
	LoanTermYears    float64 `json:"loanTermYears"`
	DownPaymentRatio float64 `json:"downPaymentRatio"`
}
