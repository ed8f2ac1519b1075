// Package validation holds the field rules shared by the profile API and the
// profile form. Both sides must produce the same messages for the same input.
package validation

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Field keys as they appear in JSON payloads and form state.
const (
	AnnualIncome     = "annualIncome"
	Savings          = "savings"
	InterestRate     = "interestRate"
	LoanTermYears    = "loanTermYears"
	DownPaymentRatio = "downPaymentRatio"
)

// Field describes the constraints of one profile input.
type Field struct {
	Key     string
	Label   string
	Unit    string
	Min     float64
	Max     *float64 // nil means unbounded above
	Step    string
	Integer bool
}

func bound(v float64) *float64 { return &v }

var fields = []Field{
	{Key: AnnualIncome, Label: "年収", Unit: "万円", Min: 0, Step: "1", Integer: true},
	{Key: Savings, Label: "貯蓄額", Unit: "万円", Min: 0, Step: "1", Integer: true},
	{Key: InterestRate, Label: "想定金利", Unit: "%", Min: 0, Max: bound(20), Step: "0.01"},
	{Key: LoanTermYears, Label: "返済期間", Unit: "年", Min: 1, Max: bound(50), Step: "1", Integer: true},
	{Key: DownPaymentRatio, Label: "頭金割合", Unit: "%", Min: 0, Max: bound(100), Step: "1", Integer: true},
}

// Fields returns the rule set in display order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Lookup returns the field declared under key.
func Lookup(key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Errors maps a field key to its message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return strings.Join(parts, "; ")
}

func (f Field) requiredMessage() string { return fmt.Sprintf("%sを入力してください", f.Label) }

// NumberMessage is reported when the value is missing or not a finite number.
func (f Field) NumberMessage() string { return fmt.Sprintf("%sは数値で入力してください", f.Label) }

// IntegerMessage is reported when an integer field receives a fractional value.
func (f Field) IntegerMessage() string { return fmt.Sprintf("%sは整数で入力してください", f.Label) }

// ValidateField checks a raw form value. An empty string is an error.
func ValidateField(f Field, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return f.requiredMessage()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return f.NumberMessage()
	}
	return ValidateNumber(f, v)
}

// ValidateNumber checks an already decoded number against the field range.
// The value is never rounded or clamped.
func ValidateNumber(f Field, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return f.NumberMessage()
	}
	if v < f.Min {
		return fmt.Sprintf("%sは%s以上で入力してください", f.Label, formatBound(f.Min))
	}
	if f.Max != nil && v > *f.Max {
		return fmt.Sprintf("%sは%s以下で入力してください", f.Label, formatBound(*f.Max))
	}
	return ""
}

// ValidateAll runs ValidateField over every declared field. Missing keys are
// treated as empty input.
func ValidateAll(values map[string]string) Errors {
	errs := Errors{}
	for _, f := range fields {
		if msg := ValidateField(f, values[f.Key]); msg != "" {
			errs[f.Key] = msg
		}
	}
	return errs
}

// ValidateNumbers runs ValidateNumber over every declared field. A missing key
// is reported as not a number.
func ValidateNumbers(values map[string]float64) Errors {
	errs := Errors{}
	for _, f := range fields {
		v, ok := values[f.Key]
		if !ok {
			errs[f.Key] = f.NumberMessage()
			continue
		}
		if msg := ValidateNumber(f, v); msg != "" {
			errs[f.Key] = msg
		}
	}
	return errs
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
