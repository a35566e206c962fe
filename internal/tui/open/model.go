// Package open содержит модель экрана ввода пути или URL для TUI
package open

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/simplemedia/internal/playlist"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Margin(1, 0)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Margin(1, 0)
)

// TracksChosenMsg отправляется, когда найдены треки для добавления
type TracksChosenMsg struct {
	Refs []string
}

// GoBackMsg отправляется при отмене ввода
type GoBackMsg struct{}

// collectFailedMsg сообщает об ошибке поиска треков
type collectFailedMsg struct {
	err error
}

// Model представляет модель экрана ввода пути
type Model struct {
	input      textinput.Model
	extensions []string
	err        string
}

// NewModel создает модель ввода. extensions задает допустимые расширения файлов.
func NewModel(extensions []string) *Model {
	input := textinput.New()
	input.Placeholder = "Путь к файлу, каталогу или URL"
	input.PromptStyle = focusedStyle
	input.TextStyle = focusedStyle
	input.Focus()

	return &Model{
		input:      input,
		extensions: extensions,
	}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case "enter":
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				m.err = "Введите путь или URL"
				return m, nil
			}
			return m, m.collect(value)
		}

	case collectFailedMsg:
		m.err = msg.err.Error()
		return m, nil

	case tea.WindowSizeMsg:
		m.input.Width = max(10, msg.Width-20)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Reset очищает поле перед повторным показом
func (m *Model) Reset() {
	m.input.SetValue("")
	m.err = ""
}

// collect ищет треки по введенному пути
func (m *Model) collect(value string) tea.Cmd {
	extensions := m.extensions
	return func() tea.Msg {
		refs, err := playlist.Collect([]string{expandHome(value)}, extensions)
		if err != nil {
			return collectFailedMsg{err: err}
		}
		if len(refs) == 0 {
			return collectFailedMsg{err: fmt.Errorf("в %s нет файлов %s", value, strings.Join(extensions, ", "))}
		}
		return TracksChosenMsg{Refs: refs}
	}
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Открыть"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Файл, каталог или ссылка http(s) на MP3:"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("Enter: добавить в плейлист • Esc: отмена"))
	return b.String()
}
