// Package components provides reusable TUI components.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencode-ai/shade/internal/tui/styles"
)

const (
	defaultCharLimit  = 256
	defaultInputWidth = 40
	maxHistory        = 50
)

// InputFieldOptions configures an InputField.
type InputFieldOptions struct {
	Label       string
	Placeholder string
	CharLimit   int
	Width       int
	// Required rejects blank submissions.
	Required bool
}

// InputSubmittedMsg is emitted when the field accepts a submission.
type InputSubmittedMsg struct {
	Value string
}

// InputField is a labelled, themed single-line text input.
type InputField struct {
	label    string
	required bool
	input    textinput.Model
	styles   styles.Styles
	history  []string
	err      string
}

// NewInputField creates a focused input field.
func NewInputField(opts InputFieldOptions, styleSet styles.Styles) InputField {
	if opts.CharLimit <= 0 {
		opts.CharLimit = defaultCharLimit
	}
	if opts.Width <= 0 {
		opts.Width = defaultInputWidth
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = opts.Placeholder
	ti.CharLimit = opts.CharLimit
	ti.Width = opts.Width
	ti.Focus()

	f := InputField{
		label:    opts.Label,
		required: opts.Required,
		input:    ti,
	}
	f.SetStyles(styleSet)
	return f
}

// SetStyles re-themes the field.
func (f *InputField) SetStyles(styleSet styles.Styles) {
	f.styles = styleSet
	f.input.PromptStyle = styleSet.Accent
	f.input.TextStyle = styleSet.InputText
	f.input.PlaceholderStyle = styleSet.InputPlaceholder
	f.input.Cursor.Style = styleSet.InputCursor
}

// Init starts the cursor blink.
func (f InputField) Init() tea.Cmd {
	return textinput.Blink
}

// Focus gives the field keyboard focus.
func (f InputField) Focus() (InputField, tea.Cmd) {
	cmd := f.input.Focus()
	return f, cmd
}

// Blur removes keyboard focus.
func (f InputField) Blur() InputField {
	f.input.Blur()
	return f
}

// Focused reports whether the field has keyboard focus.
func (f InputField) Focused() bool {
	return f.input.Focused()
}

// Value returns the current, unsubmitted text.
func (f InputField) Value() string {
	return f.input.Value()
}

// SetValue replaces the current text.
func (f InputField) SetValue(value string) InputField {
	f.input.SetValue(value)
	return f
}

// History returns accepted submissions, oldest first.
func (f InputField) History() []string {
	return append([]string(nil), f.history...)
}

// Err returns the current validation message, if any.
func (f InputField) Err() string {
	return f.err
}

// Update handles key input. Enter validates and submits the value.
func (f InputField) Update(msg tea.Msg) (InputField, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter && f.input.Focused() {
		value := strings.TrimSpace(f.input.Value())
		if value == "" {
			if f.required {
				f.err = "A value is required."
			}
			return f, nil
		}

		f.err = ""
		f.history = append(f.history, value)
		if len(f.history) > maxHistory {
			f.history = f.history[len(f.history)-maxHistory:]
		}
		f.input.Reset()
		return f, func() tea.Msg { return InputSubmittedMsg{Value: value} }
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.err != "" && strings.TrimSpace(f.input.Value()) != "" {
		f.err = ""
	}
	return f, cmd
}

// View renders the label, the boxed input and any validation error.
func (f InputField) View() string {
	box := f.styles.InputBox
	if f.input.Focused() {
		box = f.styles.InputBoxFocused
	}

	lines := make([]string, 0, 3)
	if f.label != "" {
		lines = append(lines, f.styles.InputLabel.Render(f.label))
	}
	lines = append(lines, box.Render(f.input.View()))
	if f.err != "" {
		lines = append(lines, f.styles.Error.Render(f.err))
	}
	return strings.Join(lines, "\n")
}
