package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/profile-service/internal/form"
	"github.com/Dan9191/profile-service/internal/models"
	"github.com/Dan9191/profile-service/internal/validation"
)

type fakeSaver struct {
	calls []models.ProfileRequest
	err   error
}

func (f *fakeSaver) SaveProfile(ctx context.Context, req models.ProfileRequest) (*models.ProfileView, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &models.ProfileView{ID: int64(len(f.calls))}, nil
}

func current() *models.ProfileView {
	return &models.ProfileView{
		ID:               1,
		AnnualIncome:     600,
		Savings:          200,
		InterestRate:     1.5,
		LoanTermYears:    35,
		DownPaymentRatio: 10,
	}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestModel_LiveValidation(t *testing.T) {
	m := New(context.Background(), &fakeSaver{}, nil, nil)

	m = typeText(t, m, "-")
	assert.Equal(t, "年収は数値で入力してください", m.State().Errors[validation.AnnualIncome])

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "年収を入力してください", m.State().Errors[validation.AnnualIncome])

	m = typeText(t, m, "500")
	assert.NotContains(t, m.State().Errors, validation.AnnualIncome)
	assert.Contains(t, m.View(), "物件評価に使用する財務情報を登録してください")
}

func TestModel_SubmitSuccessAndTimeout(t *testing.T) {
	saver := &fakeSaver{}
	m := New(context.Background(), saver, current(), nil)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, form.StatusSubmitting, m.State().Status)
	assert.Contains(t, m.View(), "保存中...")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	result := cmd()
	require.Len(t, saver.calls, 1)
	assert.Equal(t, 1.5, saver.calls[0].InterestRate)

	m, tick := send(t, m, result)
	require.NotNil(t, tick)
	assert.Equal(t, form.StatusSuccess, m.State().Status)
	assert.Contains(t, m.View(), "保存しました")

	m, _ = send(t, m, successTimeoutMsg{seq: m.State().SuccessSeq})
	assert.Equal(t, form.StatusIdle, m.State().Status)
}

func TestModel_SubmitFailure(t *testing.T) {
	m := New(context.Background(), &fakeSaver{err: errors.New("status 500")}, current(), nil)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())

	assert.Equal(t, form.StatusError, m.State().Status)
	assert.Contains(t, m.View(), "保存に失敗しました")
}

func TestModel_SubmitBlockedWhenInvalid(t *testing.T) {
	saver := &fakeSaver{}
	m := New(context.Background(), saver, nil, nil)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, form.StatusIdle, m.State().Status)
	assert.Empty(t, saver.calls)
}

func TestModel_FocusCycleAndHint(t *testing.T) {
	rate := &models.ReferenceRate{Rate: 2.25, KeyRate: 1.75, Margin: 0.5}
	m := New(context.Background(), &fakeSaver{}, current(), rate)
	assert.Contains(t, m.View(), "参考金利: 2.25%")

	for i := 0; i < len(validation.Fields())+1; i++ {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	assert.Equal(t, 0, m.focus)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, len(validation.Fields()), m.focus)

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
