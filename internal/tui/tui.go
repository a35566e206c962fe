// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/simplemedia/internal/player"
	"github.com/hazadus/simplemedia/internal/transport"
	"github.com/hazadus/simplemedia/internal/tui/app"
)

// Options настройки TUI
type Options = app.Options

// App представляет основное TUI приложение
type App struct {
	model   *app.MainModel
	program *tea.Program
}

// NewApp создает новый экземпляр TUI приложения. Уведомления из events
// передаются контроллеру в цикле событий программы.
func NewApp(ctx context.Context, controller *transport.Controller, events <-chan player.Event, opts Options) *App {
	model := app.NewMainModel(controller, events, opts)

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	return &App{
		model:   model,
		program: program,
	}
}

// Dispatch выполняет команду контроллеру в цикле событий программы.
// Безопасен для вызова из других горутин.
func (tuiApp *App) Dispatch(fn func(c *transport.Controller)) {
	tuiApp.program.Send(app.CommandMsg(fn))
}

// Run запускает TUI приложение. Остановка по отмене контекста
// (например, SIGINT) считается штатным завершением.
func (tuiApp *App) Run() error {
	_, err := tuiApp.program.Run()

	// Закрываем сессию после завершения программы
	tuiApp.model.Close()

	return runError(err)
}

func runError(err error) error {
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
