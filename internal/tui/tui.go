// Package tui renders the profile form in a terminal. All form decisions are
// delegated to package form; this package only maps keys and messages onto
// its transitions.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dan9191/profile-service/internal/form"
	"github.com/Dan9191/profile-service/internal/models"
	"github.com/Dan9191/profile-service/internal/validation"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	descStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	buttonStyle  = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder())
	focusedStyle = buttonStyle.BorderForeground(lipgloss.Color("12")).Bold(true)
	disabledBtn  = buttonStyle.Faint(true)
)

// Saver posts a profile to the API
type Saver interface {
	SaveProfile(ctx context.Context, req models.ProfileRequest) (*models.ProfileView, error)
}

type submitResultMsg struct{ err error }

type successTimeoutMsg struct{ seq int }

// Model is the bubbletea model of the profile form
type Model struct {
	ctx    context.Context
	api    Saver
	state  form.State
	fields []validation.Field
	inputs []textinput.Model
	focus  int
	hint   string
}

// New builds the form from the current profile and an optional reference rate.
func New(ctx context.Context, api Saver, initial *models.ProfileView, rate *models.ReferenceRate) Model {
	m := Model{
		ctx:    ctx,
		api:    api,
		state:  form.New(initial),
		fields: validation.Fields(),
	}
	for _, f := range m.fields {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = f.Label + "を入力"
		ti.CharLimit = 20
		ti.SetValue(m.state.Values[f.Key])
		m.inputs = append(m.inputs, ti)
	}
	m.inputs[0].Focus()
	if rate != nil {
		m.hint = fmt.Sprintf("参考金利: %.2f%%（政策金利 %.2f%% + %.2f%%）", rate.Rate, rate.KeyRate, rate.Margin)
	}
	return m
}

// State exposes the current form state.
func (m Model) State() form.State { return m.state }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			return m.moveFocus(1)
		case "shift+tab", "up":
			return m.moveFocus(-1)
		case "enter":
			return m.submit()
		}
		return m.updateInput(msg)

	case submitResultMsg:
		if msg.err != nil {
			m.state = m.state.SubmitFailed()
			return m, nil
		}
		m.state = m.state.SubmitSucceeded()
		seq := m.state.SuccessSeq
		return m, tea.Tick(form.SuccessDisplay, func(time.Time) tea.Msg {
			return successTimeoutMsg{seq: seq}
		})

	case successTimeoutMsg:
		m.state = m.state.SuccessTimeout(msg.seq)
		return m, nil
	}

	return m.updateInput(msg)
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus >= len(m.inputs) {
		return m, nil
	}
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		m.state = m.state.Edit(m.fields[m.focus].Key, after)
	}
	return m, cmd
}

// moveFocus cycles through the inputs and the save button.
func (m Model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	n := len(m.inputs) + 1
	m.focus = ((m.focus+delta)%n + n) % n
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.state.CanSubmit() {
		return m, nil
	}
	next, payload, ok := m.state.StartSubmit()
	m.state = next
	if !ok {
		return m, nil
	}
	ctx, api := m.ctx, m.api
	return m, func() tea.Msg {
		_, err := api.SaveProfile(ctx, payload)
		return submitResultMsg{err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("プロフィール管理"))
	b.WriteString("\n")
	if m.state.HasProfile {
		b.WriteString(descStyle.Render("財務情報を確認・変更できます"))
	} else {
		b.WriteString(descStyle.Render("物件評価に使用する財務情報を登録してください"))
	}
	b.WriteString("\n\n")

	for i, f := range m.fields {
		fmt.Fprintf(&b, "%s（%s）\n", f.Label, f.Unit)
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
		if msg, ok := m.state.Errors[f.Key]; ok {
			b.WriteString(errorStyle.Render(msg))
			b.WriteString("\n")
		}
		if f.Key == validation.InterestRate && m.hint != "" {
			b.WriteString(hintStyle.Render(m.hint))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	label := "保存"
	if m.state.Status == form.StatusSubmitting {
		label = "保存中..."
	}
	style := buttonStyle
	switch {
	case !m.state.CanSubmit():
		style = disabledBtn
	case m.focus == len(m.inputs):
		style = focusedStyle
	}
	b.WriteString(style.Render(label))
	b.WriteString("\n")

	switch m.state.Status {
	case form.StatusSuccess:
		b.WriteString(successStyle.Render("保存しました"))
		b.WriteString("\n")
	case form.StatusError:
		b.WriteString(errorStyle.Render("保存に失敗しました"))
		b.WriteString("\n")
	}

	b.WriteString(descStyle.Render("tab/↑↓: 移動  enter: 保存  esc: 終了"))
	b.WriteString("\n")
	return b.String()
}

// Run starts the form program and blocks until the user quits.
func Run(ctx context.Context, api Saver, initial *models.ProfileView, rate *models.ReferenceRate) error {
	p := tea.NewProgram(New(ctx, api, initial, rate), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("profile form: %w", err)
	}
	return nil
}
