package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tagup/internal/dispatch"
)

// tagUpFieldCount is the number of free-text fields on the form.
const tagUpFieldCount = 7

var tagUpLabels = [tagUpFieldCount]string{
	"Name",
	"Work date",
	"Project / DO",
	"Building",
	"Yesterday",
	"Today",
	"Blockers",
}

// tagUpForm is the seven-field daily status form. All fields are free
// text and none are required; empty submissions are accepted.
type tagUpForm struct {
	inputs [tagUpFieldCount]textinput.Model
	focus  int
}

func newTagUpForm() tagUpForm {
	var f tagUpForm
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = tagUpLabels[i]
		in.CharLimit = 500
		f.inputs[i] = in
	}
	f.focusField(0)
	return f
}

func (f *tagUpForm) setWidth(w int) {
	for i := range f.inputs {
		f.inputs[i].Width = w
	}
}

func (f *tagUpForm) focusField(i int) {
	if i < 0 {
		i = 0
	}
	if i >= tagUpFieldCount {
		i = tagUpFieldCount - 1
	}
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *tagUpForm) next() {
	f.focusField((f.focus + 1) % tagUpFieldCount)
}

func (f *tagUpForm) prev() {
	f.focusField((f.focus + tagUpFieldCount - 1) % tagUpFieldCount)
}

func (f *tagUpForm) onLastField() bool {
	return f.focus == tagUpFieldCount-1
}

func (f *tagUpForm) update(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *tagUpForm) values() dispatch.TagUpForm {
	return dispatch.TagUpForm{
		Name:      f.inputs[0].Value(),
		WorkDate:  f.inputs[1].Value(),
		ProjectDO: f.inputs[2].Value(),
		Building:  f.inputs[3].Value(),
		Yesterday: f.inputs[4].Value(),
		Today:     f.inputs[5].Value(),
		Blockers:  f.inputs[6].Value(),
	}
}

// reset blanks every field and returns focus to the top.
func (f *tagUpForm) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.focusField(0)
}

func (f *tagUpForm) view() string {
	label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	var b strings.Builder
	for i := range f.inputs {
		b.WriteString(label.Render(tagUpLabels[i]))
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(strings.TrimRight(b.String(), "\n"))
}
