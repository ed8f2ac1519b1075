// Package form models the profile form as an explicit state record. Every
// change goes through one of the transition methods, each returning a new
// State; the receiver is never modified.
package form

import (
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/profile-service/internal/models"
	"github.com/Dan9191/profile-service/internal/validation"
)

// SuccessDisplay is how long the success banner stays before the form returns to idle.
const SuccessDisplay = 3 * time.Second

type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the full form state.
type State struct {
	Values     map[string]string
	Errors     validation.Errors
	Status     Status
	HasProfile bool
	// SuccessSeq identifies the current success banner so that a stale
	// timeout cannot clear a newer one.
	SuccessSeq int
}

// New builds the initial state from the current profile, if any.
func New(initial *models.ProfileView) State {
	s := State{
		Values:     make(map[string]string, 5),
		Errors:     validation.Errors{},
		HasProfile: initial != nil,
	}
	for _, f := range validation.Fields() {
		s.Values[f.Key] = ""
	}
	if initial != nil {
		s.Values[validation.AnnualIncome] = strconv.FormatInt(initial.AnnualIncome, 10)
		s.Values[validation.Savings] = strconv.FormatInt(initial.Savings, 10)
		s.Values[validation.InterestRate] = strconv.FormatFloat(initial.InterestRate, 'f', -1, 64)
		s.Values[validation.LoanTermYears] = strconv.Itoa(initial.LoanTermYears)
		s.Values[validation.DownPaymentRatio] = strconv.Itoa(initial.DownPaymentRatio)
	}
	return s
}

func (s State) clone() State {
	out := s
	out.Values = make(map[string]string, len(s.Values))
	for k, v := range s.Values {
		out.Values[k] = v
	}
	out.Errors = make(validation.Errors, len(s.Errors))
	for k, v := range s.Errors {
		out.Errors[k] = v
	}
	return out
}

// Edit sets one field and re-validates only that field. A finished
// submission result is cleared; an in-flight one is left alone.
func (s State) Edit(key, value string) State {
	f, ok := validation.Lookup(key)
	if !ok {
		return s
	}
	next := s.clone()
	next.Values[key] = value
	if msg := validation.ValidateField(f, value); msg != "" {
		next.Errors[key] = msg
	} else {
		delete(next.Errors, key)
	}
	if next.Status == StatusSuccess || next.Status == StatusError {
		next.Status = StatusIdle
	}
	return next
}

// StartSubmit re-validates every field. When all pass, the state moves to
// submitting and the numeric payload is returned with ok=true.
func (s State) StartSubmit() (State, models.ProfileRequest, bool) {
	if s.Status == StatusSubmitting {
		return s, models.ProfileRequest{}, false
	}
	next := s.clone()
	next.Errors = validation.ValidateAll(next.Values)
	if len(next.Errors) > 0 {
		return next, models.ProfileRequest{}, false
	}
	next.Status = StatusSubmitting
	return next, next.payload(), true
}

// SubmitSucceeded shows the success banner.
func (s State) SubmitSucceeded() State {
	next := s.clone()
	next.Status = StatusSuccess
	next.SuccessSeq++
	next.HasProfile = true
	return next
}

// SubmitFailed shows the generic failure banner. Server field details are not mapped back.
func (s State) SubmitFailed() State {
	next := s.clone()
	next.Status = StatusError
	return next
}

// SuccessTimeout hides the success banner identified by seq.
func (s State) SuccessTimeout(seq int) State {
	if s.Status != StatusSuccess || s.SuccessSeq != seq {
		return s
	}
	next := s.clone()
	next.Status = StatusIdle
	return next
}

// IsEmpty reports whether every field is empty.
func (s State) IsEmpty() bool {
	for _, v := range s.Values {
		if v != "" {
			return false
		}
	}
	return true
}

// CanSubmit mirrors the disabled state of the save button.
func (s State) CanSubmit() bool {
	return len(s.Errors) == 0 && !s.IsEmpty() && s.Status != StatusSubmitting
}

func (s State) payload() models.ProfileRequest {
	num := func(key string) float64 {
		v, _ := strconv.ParseFloat(strings.TrimSpace(s.Values[key]), 64)
		return v
	}
	return models.ProfileRequest{
		AnnualIncome:     num(validation.AnnualIncome),
		Savings:          num(validation.Savings),
		InterestRate:     num(validation.InterestRate),
		LoanTermYears:    num(validation.LoanTermYears),
		DownPaymentRatio: num(validation.DownPaymentRatio),
	}
}
