package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustField(t *testing.T, key string) Field {
	t.Helper()
	f, ok := Lookup(key)
	require.True(t, ok, "field %s not declared", key)
	return f
}

func TestValidateField(t *testing.T) {
	tests := []struct {
		name string
		key  string
		raw  string
		want string
	}{
		{"empty", AnnualIncome, "", "年収を入力してください"},
		{"blank", Savings, "   ", "貯蓄額を入力してください"},
		{"not a number", InterestRate, "abc", "想定金利は数値で入力してください"},
		{"infinity", InterestRate, "Inf", "想定金利は数値で入力してください"},
		{"overflow", AnnualIncome, "1e400", "年収は数値で入力してください"},
		{"below min", LoanTermYears, "0", "返済期間は1以上で入力してください"},
		{"above max", InterestRate, "20.01", "想定金利は20以下で入力してください"},
		{"above ratio max", DownPaymentRatio, "101", "頭金割合は100以下で入力してください"},
		{"negative income", AnnualIncome, "-1", "年収は0以上で入力してください"},
		{"unbounded", AnnualIncome, "99999999", ""},
		{"fraction kept", InterestRate, "3.14", ""},
		{"at max", LoanTermYears, "50", ""},
		{"at min", DownPaymentRatio, "0", ""},
		{"padded", LoanTermYears, " 35 ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateField(mustField(t, tt.key), tt.raw))
		})
	}
}

func TestValidateNumber_RangeProperty(t *testing.T) {
	samples := []float64{-1000, -1, -0.01, 0, 0.01, 0.5, 1, 3.14, 19.99, 20, 20.01, 49, 50, 51, 99, 100, 100.5, 1e9}

	for _, f := range Fields() {
		for _, v := range samples {
			inRange := v >= f.Min && (f.Max == nil || v <= *f.Max)
			msg := ValidateNumber(f, v)
			assert.Equal(t, inRange, msg == "", "%s=%v got %q", f.Key, v, msg)
		}
		assert.NotEmpty(t, ValidateNumber(f, math.NaN()), f.Key)
		assert.NotEmpty(t, ValidateNumber(f, math.Inf(1)), f.Key)
		assert.NotEmpty(t, ValidateNumber(f, math.Inf(-1)), f.Key)
	}
}

func TestValidateAll_CollectsEveryField(t *testing.T) {
	errs := ValidateAll(map[string]string{
		AnnualIncome:  "-5",
		Savings:       "",
		InterestRate:  "x",
		LoanTermYears: "35",
	})

	assert.Len(t, errs, 4)
	assert.Equal(t, "年収は0以上で入力してください", errs[AnnualIncome])
	assert.Equal(t, "貯蓄額を入力してください", errs[Savings])
	assert.Equal(t, "想定金利は数値で入力してください", errs[InterestRate])
	assert.Equal(t, "頭金割合を入力してください", errs[DownPaymentRatio])
	assert.NotContains(t, errs, LoanTermYears)
}

func TestValidateNumbers(t *testing.T) {
	errs := ValidateNumbers(map[string]float64{
		AnnualIncome:     6000000,
		Savings:          2000000,
		InterestRate:     3.14,
		LoanTermYears:    35,
		DownPaymentRatio: 10,
	})
	assert.Empty(t, errs)

	errs = ValidateNumbers(map[string]float64{AnnualIncome: -1})
	assert.Equal(t, "年収は0以上で入力してください", errs[AnnualIncome])
	assert.Equal(t, "貯蓄額は数値で入力してください", errs[Savings])
	assert.Len(t, errs, 5)
}

func TestErrors_Error(t *testing.T) {
	errs := Errors{Savings: "b", AnnualIncome: "a"}
	assert.Equal(t, "annualIncome: a; savings: b", errs.Error())
}

func TestFields_Order(t *testing.T) {
	var keys []string
	for _, f := range Fields() {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{AnnualIncome, Savings, InterestRate, LoanTermYears, DownPaymentRatio}, keys)

	_, ok := Lookup("unknown")
	assert.False(t, ok)
}
