// ABOUTME: Interactive TUI wizard for configuring X API and SocialData.tools credentials.
// ABOUTME: 5-step bubbletea model that validates the X credentials before saving.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Step represents the current wizard step.
type Step int

const (
	StepAPIKey Step = iota
	StepAPISecret
	StepAccessToken
	StepAccessTokenSecret
	StepSocialData
	StepValidating
	StepDone
	StepFailed
)

const inputCount = 5

// Credentials are the values collected by the wizard.
type Credentials struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
	SocialDataKey     string
}

type field struct {
	label       string
	placeholder string
	secret      bool
	optional    bool
}

var fields = [inputCount]field{
	{label: "X API Key", placeholder: "your-api-key"},
	{label: "X API Secret", placeholder: "your-api-secret", secret: true},
	{label: "Access Token", placeholder: "your-access-token"},
	{label: "Access Token Secret", placeholder: "your-access-token-secret", secret: true},
	{label: "SocialData API Key", placeholder: "optional, press Enter to skip", secret: true, optional: true},
}

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	err error
}

// ValidateFn is the function signature for credential validation.
type ValidateFn func(ctx context.Context, apiURL string, creds Credentials) error

// cancelHolder shares a cancel function across bubbletea model copies.
// This MUST be stored as a pointer field on SetupModel so that value-receiver
// methods (required by tea.Model) can store the cancel func and have it
// visible to all copies of the model.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	apiURL        string
	inputs        [inputCount]textinput.Model
	spinner       spinner.Model
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	validationErr error
	quitting      bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewSetupModel creates a new setup wizard model, pre-filling with existing
// credentials. apiURL is the X API base used for validation.
func NewSetupModel(apiURL string, creds Credentials) SetupModel {
	values := [inputCount]string{creds.APIKey, creds.APISecret, creds.AccessToken, creds.AccessTokenSecret, creds.SocialDataKey}

	var inputs [inputCount]textinput.Model
	for i, f := range fields {
		in := textinput.New()
		in.Placeholder = f.placeholder
		in.Width = 50
		if f.secret {
			in.EchoMode = textinput.EchoPassword
		}
		if values[i] != "" {
			in.SetValue(values[i])
		}
		inputs[i] = in
	}
	inputs[0].Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	return SetupModel{
		step:       StepAPIKey,
		apiURL:     apiURL,
		inputs:     inputs,
		spinner:    s,
		validateFn: ValidateConnection,
		cancelCtx:  &cancelHolder{},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch {
		case m.step < StepValidating:
			return m.updateInput(msg)
		case m.step == StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	idx := int(m.step)

	if msg.Type == tea.KeyEnter {
		m.inputs[idx].SetValue(strings.TrimSpace(m.inputs[idx].Value()))
		if !fields[idx].optional && m.inputs[idx].Value() == "" {
			return m, nil
		}

		m.inputs[idx].Blur()
		if m.step == StepSocialData {
			m.step = StepValidating
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		}
		m.step++
		m.inputs[m.step].Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes {
		switch msg.Runes[0] {
		case 'r':
			m.step = StepValidating
			m.validationErr = nil
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		case 's':
			m.step = StepDone
			return m, tea.Quit
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	apiURL, creds, fn := m.apiURL, m.Result(), m.validateFn
	return func() tea.Msg {
		return validationResultMsg{err: fn(ctx, apiURL, creds)}
	}
}

func mask(s string) string {
	if s == "" {
		return "(not set)"
	}
	return strings.Repeat("*", len(s))
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   TWITTER MCP"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Configure your X API and SocialData.tools credentials.\n\n")

	switch {
	case m.step < StepValidating:
		idx := int(m.step)
		for i := 0; i < idx; i++ {
			value := m.inputs[i].Value()
			if fields[i].secret {
				value = mask(value)
			}
			b.WriteString(fmt.Sprintf("  %s: %s\n", fields[i].label, value))
		}
		if idx > 0 {
			b.WriteString("\n")
		}
		b.WriteString(stepStyle.Render(fmt.Sprintf("Step %d of %d: %s", idx+1, inputCount, fields[idx].label)))
		b.WriteString("\n")
		if fields[idx].optional {
			b.WriteString(promptStyle.Render("(press Enter to skip)"))
			b.WriteString("\n")
		}
		b.WriteString(m.inputs[idx].View())
		b.WriteString("\n")

	case m.step == StepValidating:
		b.WriteString(fmt.Sprintf("  X API Key: %s\n\n", m.inputs[0].Value()))
		b.WriteString(m.spinner.View())
		b.WriteString(" Validating X API credentials...")
		b.WriteString("\n")

	case m.step == StepDone:
		b.WriteString(successStyle.Render("✓ Connected!"))
		b.WriteString("\n")

	case m.step == StepFailed:
		errMsg := "unknown error"
		if m.validationErr != nil {
			errMsg = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Validation failed: %s", errMsg)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the entered values.
func (m SetupModel) Result() Credentials {
	return Credentials{
		APIKey:            m.inputs[0].Value(),
		APISecret:         m.inputs[1].Value(),
		AccessToken:       m.inputs[2].Value(),
		AccessTokenSecret: m.inputs[3].Value(),
		SocialDataKey:     m.inputs[4].Value(),
	}
}

// ShouldSave returns true if the wizard completed (via validation success or
// "save anyway") and the user did not cancel with Ctrl+C, Escape, or 'q'.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
