package models

import "time"

// ReferenceRate is a suggested interest rate derived from the central bank key rate
type ReferenceRate struct {
	Rate      float64   `json:"rate"`
	KeyRate   float64   `json:"keyRate"`
	Margin    float64   `json:"margin"`
	FetchedAt time.Time `json:"fetchedAt"`
}
