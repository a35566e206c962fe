// Package player содержит модель экрана воспроизведения для TUI
package player

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/simplemedia/internal/playlist"
	"github.com/hazadus/simplemedia/internal/transport"
	"github.com/hazadus/simplemedia/internal/tui/cover"
	"github.com/hazadus/simplemedia/internal/tui/keys"
	"github.com/hazadus/simplemedia/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5f87ff"))

	trackTitleStyle = lipgloss.NewStyle().
			Bold(true)

	trackInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	statusStyle = lipgloss.NewStyle().
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)
)

// Размеры элементов экрана
const (
	padLeft        = 2
	coverWidth     = 16
	coverHeight    = 8
	minCoverHeight = 6
	maxCoverHeight = 16
	reservedRows   = 12
	progressWidth  = 40
	volumeBarWidth = 20
	maxInfoWidth   = 48
)

// Model представляет модель экрана воспроизведения
type Model struct {
	controller  *transport.Controller
	keys        keys.KeyMap
	help        help.Model
	progressBar progress.Model
	volumeBar   progress.Model
	cover       *cover.Renderer
	notice      error
	width       int
	height      int
}

// NewModel создает модель экрана воспроизведения
func NewModel(controller *transport.Controller, keyMap keys.KeyMap) *Model {
	prog := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	prog.Width = progressWidth

	vol := progress.New(progress.WithSolidFill("#5f87ff"), progress.WithoutPercentage())
	vol.Width = volumeBarWidth

	return &Model{
		controller:  controller,
		keys:        keyMap,
		help:        help.New(),
		progressBar: prog,
		volumeBar:   vol,
		cover:       cover.New(coverWidth, coverHeight),
	}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = max(10, min(60, msg.Width-2*padLeft))
		m.help.Width = msg.Width
		m.cover.SetSize(coverSize(msg.Height))
		return m, nil

	case tea.KeyMsg:
		m.handleKey(msg)
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	c := m.controller
	m.notice = nil

	switch {
	case key.Matches(msg, m.keys.PlayPause):
		c.TogglePlayPause()
	case key.Matches(msg, m.keys.SeekBack):
		c.SeekRelative(-c.SeekStep())
	case key.Matches(msg, m.keys.SeekAhead):
		c.SeekRelative(c.SeekStep())
	case key.Matches(msg, m.keys.VolumeUp):
		c.AdjustVolume(c.VolumeStep())
	case key.Matches(msg, m.keys.VolumeDown):
		c.AdjustVolume(-c.VolumeStep())
	case key.Matches(msg, m.keys.Mute):
		c.ToggleMute()
	case key.Matches(msg, m.keys.Next):
		m.notice = c.Next()
	case key.Matches(msg, m.keys.Previous):
		m.notice = c.Previous()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
}

// handleMouse перематывает по клику на прогресс-баре и меняет громкость
// по клику на ее шкале или колесом мыши
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.controller.AdjustVolume(m.controller.VolumeStep())
		return
	case tea.MouseButtonWheelDown:
		m.controller.AdjustVolume(-m.controller.VolumeStep())
		return
	case tea.MouseButtonLeft:
	default:
		return
	}

	switch msg.Y {
	case m.progressRow():
		if f, ok := barFraction(msg.X, padLeft, m.progressBar.Width); ok {
			m.controller.SeekToFraction(f)
		}
	case m.volumeRow():
		start := padLeft + lipgloss.Width(m.volumeLabel())
		if f, ok := barFraction(msg.X, start, m.volumeBar.Width); ok {
			m.controller.SetVolume(f)
		}
	}
}

// barFraction переводит колонку клика в долю шкалы
func barFraction(x, start, width int) (float64, bool) {
	if width <= 0 || x < start || x >= start+width {
		return 0, false
	}
	return float64(x-start) / float64(width), true
}

// coverSize подбирает обложку под высоту терминала. Ячейка вдвое выше
// своей ширины, поэтому ширина в ячейках равна удвоенной высоте.
func coverSize(termHeight int) (int, int) {
	height := max(minCoverHeight, min(maxCoverHeight, termHeight-reservedRows))
	return height * 2, height
}

// Строки экрана: заголовок, пустая строка, обложка, пустая строка, прогресс
func (m *Model) progressRow() int {
	_, height := m.cover.Size()
	return height + 3
}

func (m *Model) volumeRow() int {
	_, height := m.cover.Size()
	return height + 6
}

// View отображает модель
func (m *Model) View() string {
	s := m.controller.Snapshot()
	pad := strings.Repeat(" ", padLeft)

	header := fmt.Sprintf("%s  %s",
		titleStyle.Render("🎵 simplemedia"),
		statusStyle.Render(fmt.Sprintf("%s %s", stateIcon(s.State), formatState(s.State))),
	)

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.cover.Render(s.Metadata.Cover),
		"  ",
		m.trackInfo(s),
	)

	timeText := timeStyle.Render(fmt.Sprintf("%s / %s",
		utils.FormatDuration(s.Position),
		utils.FormatDuration(s.Duration),
	))

	volume := fmt.Sprintf("%s%s %3.0f%%",
		m.volumeLabel(),
		m.volumeBar.ViewAs(s.Volume),
		s.Volume*100,
	)

	var footer string
	switch {
	case m.notice != nil:
		footer = errorStyle.Render(m.notice.Error())
	case s.Err != nil:
		footer = errorStyle.Render(s.Err.Error())
	default:
		footer = m.help.View(m.keys)
	}

	return strings.Join([]string{
		header,
		"",
		body,
		"",
		pad + m.progressBar.ViewAs(s.Progress()),
		pad + timeText,
		"",
		pad + volume,
		"",
		pad + footer,
	}, "\n")
}

func (m *Model) trackInfo(s transport.Snapshot) string {
	if s.Index == playlist.NoTrack {
		return trackInfoStyle.Render("Плейлист пуст.\nНажмите a, чтобы добавить файлы,\nили o, чтобы открыть путь или URL.")
	}

	meta := s.Metadata
	lines := []string{
		trackTitleStyle.Render(utils.TruncateString(meta.Title, maxInfoWidth)),
		trackInfoStyle.Render("🎤 " + utils.TruncateString(meta.Artist, maxInfoWidth)),
		trackInfoStyle.Render("💿 " + utils.TruncateString(meta.Album, maxInfoWidth)),
		"",
		trackInfoStyle.Render(fmt.Sprintf("Трек %d из %d", s.Index+1, s.Count)),
		trackInfoStyle.Render(utils.TruncateString(playlist.DisplayName(s.Ref), maxInfoWidth)),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) volumeLabel() string {
	if m.controller.Snapshot().Muted {
		return "🔇 "
	}
	return "🔊 "
}

// Вспомогательные функции

func stateIcon(state transport.State) string {
	switch state {
	case transport.StatePlaying:
		return "▶"
	case transport.StatePaused, transport.StateReady:
		return "⏸"
	case transport.StateLoading:
		return "…"
	case transport.StateError:
		return "✖"
	default:
		return "■"
	}
}

func formatState(state transport.State) string {
	switch state {
	case transport.StateNoTrack:
		return "Нет трека"
	case transport.StateLoading:
		return "Загрузка"
	case transport.StateReady:
		return "Готово"
	case transport.StatePlaying:
		return "Воспроизведение"
	case transport.StatePaused:
		return "Пауза"
	case transport.StateEnded:
		return "Трек закончился"
	case transport.StateError:
		return "Ошибка"
	default:
		return "Неизвестно"
	}
}
