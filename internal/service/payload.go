package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Dan9191/profile-service/internal/models"
	"github.com/Dan9191/profile-service/internal/validation"
	"github.com/shopspring/decimal"
)

// FormKey holds errors that concern the whole body rather than one field.
const FormKey = "_form"

const malformedBodyMessage = "リクエストボディが不正です"

// ErrMalformedRequest is wrapped by a ValidationError when the body is not a JSON object.
var ErrMalformedRequest = errors.New("malformed request body")

// ValidationError carries per-field messages for a rejected payload
type ValidationError struct {
	Details validation.Errors
	cause   error
}

func (e *ValidationError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%v: %v", e.cause, e.Details)
	}
	return fmt.Sprintf("invalid profile input: %v", e.Details)
}

func (e *ValidationError) Unwrap() error { return e.cause }

func malformed(err error) *ValidationError {
	cause := ErrMalformedRequest
	if err != nil {
		cause = fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	return &ValidationError{
		Details: validation.Errors{FormKey: malformedBodyMessage},
		cause:   cause,
	}
}

// DecodeProfileInput reads a JSON object and checks every profile field.
// All failing fields are reported together; nothing is trusted before that.
func DecodeProfileInput(r io.Reader) (models.ProfileInput, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return models.ProfileInput{}, malformed(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return models.ProfileInput{}, malformed(errors.New("unexpected data after JSON object"))
	}
	body, ok := raw.(map[string]any)
	if !ok {
		return models.ProfileInput{}, malformed(nil)
	}

	numbers := make(map[string]float64, len(body))
	for _, f := range validation.Fields() {
		n, ok := body[f.Key].(json.Number)
		if !ok {
			continue
		}
		if v, err := n.Float64(); err == nil {
			numbers[f.Key] = v
		}
	}

	details := validation.ValidateNumbers(numbers)
	for _, f := range validation.Fields() {
		if _, failed := details[f.Key]; failed || !f.Integer {
			continue
		}
		v := numbers[f.Key]
		if v != math.Trunc(v) {
			details[f.Key] = f.IntegerMessage()
		} else if v >= math.MaxInt64 {
			details[f.Key] = f.NumberMessage()
		}
	}
	if len(details) > 0 {
		return models.ProfileInput{}, &ValidationError{Details: details}
	}

	return models.ProfileInput{
		AnnualIncome:     int64(numbers[validation.AnnualIncome]),
		Savings:          int64(numbers[validation.Savings]),
		InterestRate:     decimal.NewFromFloat(numbers[validation.InterestRate]),
		LoanTermYears:    int(numbers[validation.LoanTermYears]),
		DownPaymentRatio: int(numbers[validation.DownPaymentRatio]),
	}, nil
}
