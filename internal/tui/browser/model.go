// Package browser содержит модель экрана выбора файлов для TUI
package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).MarginLeft(2)
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginLeft(2)
	addedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).MarginLeft(2)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0, 0, 2)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).MarginLeft(2)
)

// FileChosenMsg отправляется при выборе файла
type FileChosenMsg struct {
	Path string
}

// GoBackMsg отправляется при выходе из браузера
type GoBackMsg struct{}

// Model представляет модель выбора файлов
type Model struct {
	picker   filepicker.Model
	added    string
	rejected string
}

// NewModel создает браузер, открытый в каталоге dir
func NewModel(dir string, extensions []string) *Model {
	fp := filepicker.New()
	fp.CurrentDirectory = dir
	fp.AllowedTypes = extensionsWithCase(extensions)
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.AutoHeight = true

	return &Model{picker: fp}
}

// Init читает начальный каталог
func (m *Model) Init() tea.Cmd {
	return m.picker.Init()
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q":
			return m, func() tea.Msg {
				return GoBackMsg{}
			}
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.added = path
		m.rejected = ""
		chosen := func() tea.Msg {
			return FileChosenMsg{Path: path}
		}
		return m, tea.Batch(cmd, chosen)
	}

	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.rejected = path
		m.added = ""
	}

	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Добавить файлы"))
	b.WriteString("\n")
	b.WriteString(pathStyle.Render(m.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n")

	switch {
	case m.added != "":
		b.WriteString(addedStyle.Render(fmt.Sprintf("Добавлен: %s", m.added)))
	case m.rejected != "":
		b.WriteString(warnStyle.Render(fmt.Sprintf("Формат не поддерживается: %s", m.rejected)))
	}

	b.WriteString(helpStyle.Render("Enter: добавить • ←/→: каталоги • Esc: назад"))
	return b.String()
}

// extensionsWithCase добавляет варианты расширений в верхнем регистре,
// filepicker сравнивает суффиксы с учетом регистра
func extensionsWithCase(extensions []string) []string {
	result := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		result = append(result, strings.ToLower(ext), strings.ToUpper(ext))
	}
	return result
}
