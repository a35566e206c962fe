// Package app содержит основную логику TUI приложения
package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/simplemedia/internal/player"
	"github.com/hazadus/simplemedia/internal/transport"
	"github.com/hazadus/simplemedia/internal/tui/browser"
	"github.com/hazadus/simplemedia/internal/tui/keys"
	"github.com/hazadus/simplemedia/internal/tui/open"
	tuiPlayer "github.com/hazadus/simplemedia/internal/tui/player"
	"github.com/hazadus/simplemedia/internal/tui/tracklist"
)

// ScreenType определяет тип текущего экрана
type ScreenType int

// Константы для типов экранов
const (
	// PlayerScreen - экран воспроизведения
	PlayerScreen ScreenType = iota
	// PlaylistScreen - экран плейлиста
	PlaylistScreen
	// BrowserScreen - экран выбора файлов
	BrowserScreen
	// OpenScreen - экран ввода пути или URL
	OpenScreen
)

// EventMsg уведомление сессии воспроизведения
type EventMsg struct {
	Event player.Event
}

// CommandMsg команда контроллеру из внешнего источника (например, MPRIS).
// Выполняется в цикле событий программы, как и команды с клавиатуры.
type CommandMsg func(c *transport.Controller)

// Options настройки экранов
type Options struct {
	MusicDir   string
	Extensions []string
}

// MainModel представляет главную модель TUI
type MainModel struct {
	controller     *transport.Controller
	events         <-chan player.Event
	keys           keys.KeyMap
	options        Options
	currentScreen  ScreenType
	playerModel    *tuiPlayer.Model
	tracklistModel *tracklist.Model
	browserModel   *browser.Model
	openModel      *open.Model
}

// NewMainModel создает новую главную модель
func NewMainModel(controller *transport.Controller, events <-chan player.Event, opts Options) *MainModel {
	keyMap := keys.DefaultKeyMap()

	return &MainModel{
		controller:     controller,
		events:         events,
		keys:           keyMap,
		options:        opts,
		currentScreen:  PlayerScreen,
		playerModel:    tuiPlayer.NewModel(controller, keyMap),
		tracklistModel: tracklist.NewModel(controller.Playlist(), controller.Snapshot().Index),
		browserModel:   browser.NewModel(opts.MusicDir, opts.Extensions),
		openModel:      open.NewModel(opts.Extensions),
	}
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.listenForEvents(),
		m.playerModel.Init(),
	)
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		m.controller.HandleEvent(msg.Event)
		if msg.Event.Kind != player.EventPosition {
			m.refreshPlaylist()
		}
		return m, m.listenForEvents()

	case CommandMsg:
		msg(m.controller)
		m.refreshPlaylist()
		return m, nil

	case tea.KeyMsg:
		// Глобальные горячие клавиши
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.currentScreen == PlayerScreen {
			if model, cmd, handled := m.handlePlayerKeys(msg); handled {
				return model, cmd
			}
		}

	case tracklist.TrackSelectedMsg:
		_ = m.controller.Select(msg.Index)
		m.currentScreen = PlayerScreen
		m.refreshPlaylist()
		return m, nil

	case browser.FileChosenMsg:
		// Остаемся в браузере, чтобы можно было выбрать несколько файлов
		_ = m.controller.Add(msg.Path)
		m.refreshPlaylist()
		return m, nil

	case open.TracksChosenMsg:
		_ = m.controller.Add(msg.Refs...)
		m.currentScreen = PlayerScreen
		m.refreshPlaylist()
		return m, nil

	case tracklist.GoBackMsg, browser.GoBackMsg, open.GoBackMsg:
		m.currentScreen = PlayerScreen
		return m, nil

	case tea.WindowSizeMsg:
		// Размер нужен всем экранам, в том числе скрытым
		return m, m.resizeAll(msg)

	case tea.MouseMsg:
		if m.currentScreen != PlayerScreen {
			return m, nil
		}
	}

	// Передаем сообщение активной модели
	return m, m.updateCurrent(msg)
}

func (m *MainModel) handlePlayerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Playlist):
		m.refreshPlaylist()
		m.currentScreen = PlaylistScreen
		return m, nil, true

	case key.Matches(msg, m.keys.Browse):
		m.currentScreen = BrowserScreen
		return m, m.browserModel.Init(), true

	case key.Matches(msg, m.keys.Open):
		m.openModel.Reset()
		m.currentScreen = OpenScreen
		return m, m.openModel.Init(), true
	}
	return m, nil, false
}

func (m *MainModel) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch m.currentScreen {
	case PlayerScreen:
		_, cmd = m.playerModel.Update(msg)
	case PlaylistScreen:
		m.tracklistModel, cmd = m.tracklistModel.Update(msg)
	case BrowserScreen:
		m.browserModel, cmd = m.browserModel.Update(msg)
	case OpenScreen:
		m.openModel, cmd = m.openModel.Update(msg)
	}

	return cmd
}

func (m *MainModel) resizeAll(msg tea.WindowSizeMsg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	_, cmd = m.playerModel.Update(msg)
	cmds = append(cmds, cmd)
	m.tracklistModel, cmd = m.tracklistModel.Update(msg)
	cmds = append(cmds, cmd)
	m.browserModel, cmd = m.browserModel.Update(msg)
	cmds = append(cmds, cmd)
	m.openModel, cmd = m.openModel.Update(msg)
	cmds = append(cmds, cmd)

	return tea.Batch(cmds...)
}

// refreshPlaylist синхронизирует экран плейлиста с контроллером
func (m *MainModel) refreshPlaylist() {
	if m.tracklistModel.Filtering() {
		return
	}
	m.tracklistModel.RefreshData(m.controller.Playlist(), m.controller.Snapshot().Index)
}

// View отображает интерфейс
func (m *MainModel) View() string {
	switch m.currentScreen {
	case PlayerScreen:
		return m.playerModel.View()
	case PlaylistScreen:
		return m.tracklistModel.View()
	case BrowserScreen:
		return m.browserModel.View()
	case OpenScreen:
		return m.openModel.View()
	default:
		return "Неизвестный экран"
	}
}

// CurrentScreen возвращает активный экран
func (m *MainModel) CurrentScreen() ScreenType {
	return m.currentScreen
}

// listenForEvents ждет следующее уведомление сессии
func (m *MainModel) listenForEvents() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		return EventMsg{Event: <-m.events}
	}
}

// Close закрывает ресурсы главной модели
func (m *MainModel) Close() {
	m.controller.Close()
}
