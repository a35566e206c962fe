// Package tracklist содержит модель экрана плейлиста для TUI
package tracklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/simplemedia/internal/playlist"
	"github.com/hazadus/simplemedia/internal/utils"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	currentItemStyle  = lipgloss.NewStyle().Bold(true)
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
)

const nameWidth = 60

// TrackSelectedMsg отправляется при выборе трека для воспроизведения
type TrackSelectedMsg struct {
	Index int
}

// GoBackMsg отправляется для возврата к экрану воспроизведения
type GoBackMsg struct{}

// trackItem реализует интерфейс list.Item для трека плейлиста
type trackItem struct {
	index   int
	ref     string
	current bool
}

func (i trackItem) FilterValue() string {
	return playlist.DisplayName(i.ref)
}

// trackItemDelegate реализует отображение элементов списка
type trackItemDelegate struct{}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}

	marker := " "
	if i.current {
		marker = "▶"
	}
	str := fmt.Sprintf("%s %-4d %s", marker, i.index+1, utils.TruncateString(playlist.DisplayName(i.ref), nameWidth))
	if i.current {
		str = currentItemStyle.Render(str)
	}

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// Model представляет модель экрана плейлиста
type Model struct {
	List list.Model
}

// NewModel создает новую модель плейлиста
func NewModel(refs []string, current int) *Model {
	l := list.New(items(refs, current), trackItemDelegate{}, 0, 0)
	l.Title = "Плейлист"
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	if current >= 0 && current < len(refs) {
		l.Select(current)
	}

	return &Model{List: l}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// RefreshData обновляет элементы без пересоздания модели
func (m *Model) RefreshData(refs []string, current int) {
	m.List.SetItems(items(refs, current))
	if current >= 0 && current < len(refs) {
		m.List.Select(current)
	}
}

// Filtering возвращает true, пока пользователь вводит фильтр
func (m *Model) Filtering() bool {
	return m.List.FilterState() == list.Filtering
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.List.SetWidth(msg.Width)
		m.List.SetHeight(msg.Height - 4) // Оставляем место для заголовка и справки
		return m, nil

	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch msg.String() {
		case "esc", "tab":
			if m.List.FilterState() == list.FilterApplied && msg.String() == "esc" {
				break
			}
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case "enter":
			if item, ok := m.List.SelectedItem().(trackItem); ok {
				return m, func() tea.Msg {
					return TrackSelectedMsg{Index: item.index}
				}
			}
		}
	}

	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	view := m.List.View()
	extraHelp := helpStyle.Render("Enter: воспроизвести • tab/esc: назад • /: поиск")
	return view + "\n" + extraHelp
}

func items(refs []string, current int) []list.Item {
	result := make([]list.Item, len(refs))
	for i, ref := range refs {
		result[i] = trackItem{index: i, ref: ref, current: i == current}
	}
	return result
}
