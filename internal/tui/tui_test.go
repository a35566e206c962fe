package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/simplemedia/internal/metadata"
	"github.com/hazadus/simplemedia/internal/player"
	"github.com/hazadus/simplemedia/internal/transport"
	"github.com/hazadus/simplemedia/internal/tui/app"
)

func TestNewApp(t *testing.T) {
	controller := transport.NewController(player.NewMockOpener(), metadata.NewExtractor(), transport.DefaultOptions())
	events := make(chan player.Event)

	tuiApp := NewApp(context.Background(), controller, events, Options{MusicDir: t.TempDir(), Extensions: []string{".mp3"}})

	if tuiApp.model == nil || tuiApp.program == nil {
		t.Fatal("Модель и программа должны быть созданы")
	}
	if tuiApp.model.CurrentScreen() != app.PlayerScreen {
		t.Errorf("Expected initial screen to be PlayerScreen, got %v", tuiApp.model.CurrentScreen())
	}
}

func TestRunErrorIgnoresKilledProgram(t *testing.T) {
	killed := fmt.Errorf("%w: %w", tea.ErrProgramKilled, context.Canceled)
	if err := runError(killed); err != nil {
		t.Errorf("Остановка по контексту не должна быть ошибкой, получено %v", err)
	}
	if err := runError(nil); err != nil {
		t.Errorf("Ожидался nil, получено %v", err)
	}

	other := errors.New("терминал недоступен")
	if err := runError(other); !errors.Is(err, other) {
		t.Errorf("Остальные ошибки должны возвращаться, получено %v", err)
	}
}

func TestRunStoppedByContext(t *testing.T) {
	controller := transport.NewController(player.NewMockOpener(), metadata.NewExtractor(), transport.DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tuiApp := NewApp(ctx, controller, make(chan player.Event), Options{Extensions: []string{".mp3"}})
	tuiApp.program = tea.NewProgram(tuiApp.model,
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)

	if err := tuiApp.Run(); err != nil {
		t.Errorf("Отмена контекста должна завершать программу без ошибки, получено %v", err)
	}
}
