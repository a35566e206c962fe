package player

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/simplemedia/internal/metadata"
	"github.com/hazadus/simplemedia/internal/player"
	"github.com/hazadus/simplemedia/internal/transport"
	"github.com/hazadus/simplemedia/internal/tui/keys"
)

func newTestModel(t *testing.T, refs ...string) (*Model, *transport.Controller, *player.MockOpener) {
	t.Helper()
	opener := player.NewMockOpener()
	controller := transport.NewController(opener, metadata.NewExtractor(), transport.DefaultOptions())
	t.Cleanup(controller.Close)

	if len(refs) > 0 {
		if err := controller.Add(refs...); err != nil {
			t.Fatalf("Ошибка добавления треков: %v", err)
		}
		sess := opener.Last()
		controller.HandleEvent(player.Event{Session: sess.ID(), Kind: player.EventReady, Duration: sess.Duration()})
	}

	return NewModel(controller, keys.DefaultKeyMap()), controller, opener
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewModel(t *testing.T) {
	model, _, _ := newTestModel(t)

	if model == nil {
		t.Fatal("NewModel returned nil")
	}
	if model.progressBar.Width != progressWidth {
		t.Errorf("Ожидалась ширина прогресс-бара %d, получено %d", progressWidth, model.progressBar.Width)
	}
}

func TestViewEmptyPlaylist(t *testing.T) {
	model, _, _ := newTestModel(t)

	view := model.View()
	if !strings.Contains(view, "Нет трека") {
		t.Error("Ожидалось состояние 'Нет трека'")
	}
	if !strings.Contains(view, "Плейлист пуст") {
		t.Error("Ожидалась подсказка о пустом плейлисте")
	}
	if !strings.Contains(view, "--:--") {
		t.Error("Без трека длительность неизвестна")
	}
}

func TestViewShowsDefaultsForUntaggedTrack(t *testing.T) {
	model, _, _ := newTestModel(t, "/music/song.mp3")

	view := model.View()
	if !strings.Contains(view, metadata.NotAvailable) {
		t.Error("Ожидались значения N/A для трека без тегов")
	}
	if !strings.Contains(view, "song.mp3") {
		t.Error("Ожидалось имя файла")
	}
	if !strings.Contains(view, "Воспроизведение") {
		t.Error("Ожидалось состояние воспроизведения")
	}
	if !strings.Contains(view, "03:00") {
		t.Error("Ожидалась длительность 03:00")
	}
}

func TestUpdateWindowSize(t *testing.T) {
	model, _, _ := newTestModel(t)

	updatedModel, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	playerModel := updatedModel.(*Model)

	if playerModel.width != 100 || playerModel.height != 40 {
		t.Errorf("Ожидался размер 100x40, получено %dx%d", playerModel.width, playerModel.height)
	}
	if playerModel.progressBar.Width != 60 {
		t.Errorf("Ожидалась ширина прогресс-бара 60, получено %d", playerModel.progressBar.Width)
	}
}

func TestCoverFollowsWindowHeight(t *testing.T) {
	tests := []struct {
		height      int
		wantWidth   int
		wantHeight  int
		progressRow int
	}{
		{height: 40, wantWidth: 32, wantHeight: 16, progressRow: 19},
		{height: 20, wantWidth: 16, wantHeight: 8, progressRow: 11},
		{height: 10, wantWidth: 12, wantHeight: 6, progressRow: 9},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("height=%d", tt.height), func(t *testing.T) {
			model, _, _ := newTestModel(t)
			model.Update(tea.WindowSizeMsg{Width: 100, Height: tt.height})

			width, height := model.cover.Size()
			if width != tt.wantWidth || height != tt.wantHeight {
				t.Errorf("Ожидалась обложка %dx%d, получено %dx%d", tt.wantWidth, tt.wantHeight, width, height)
			}
			if model.progressRow() != tt.progressRow {
				t.Errorf("Ожидалась строка прогресса %d, получено %d", tt.progressRow, model.progressRow())
			}
			if model.volumeRow() != tt.progressRow+3 {
				t.Errorf("Ожидалась строка громкости %d, получено %d", tt.progressRow+3, model.volumeRow())
			}
		})
	}
}

func TestKeyHandling(t *testing.T) {
	model, controller, opener := newTestModel(t, "A", "B")

	model.Update(runeKey(' '))
	if controller.State() != transport.StatePaused {
		t.Errorf("Пробел должен ставить на паузу, состояние %s", controller.State())
	}

	model.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := controller.Snapshot().Volume; math.Abs(got-0.4) > 1e-9 {
		t.Errorf("Ожидалась громкость 0.4, получено %v", got)
	}

	model.Update(runeKey('m'))
	if !opener.Last().Muted() {
		t.Error("m должна выключать звук")
	}

	opener.Last().SetPosition(time.Minute)
	model.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := opener.Last().Position(); got != time.Minute+transport.DefaultSeekStep {
		t.Errorf("Ожидалась позиция 1m5s, получено %v", got)
	}

	model.Update(runeKey('n'))
	if controller.Snapshot().Ref != "B" {
		t.Errorf("n должна переключать на следующий трек, получено %s", controller.Snapshot().Ref)
	}
}

func TestNavigationErrorIsShown(t *testing.T) {
	model, _, _ := newTestModel(t)

	model.Update(runeKey('n'))
	if model.notice == nil {
		t.Fatal("Ожидалось сообщение об ошибке для пустого плейлиста")
	}
	if !strings.Contains(model.View(), model.notice.Error()) {
		t.Error("Сообщение об ошибке должно отображаться")
	}
}

func TestMouseClickSeeks(t *testing.T) {
	model, _, opener := newTestModel(t, "A")

	click := tea.MouseMsg{
		X:      padLeft + progressWidth/2,
		Y:      model.progressRow(),
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	}
	model.Update(click)

	if got := opener.Last().Position(); got != 90*time.Second {
		t.Errorf("Ожидалась позиция 1m30s, получено %v", got)
	}

	// Клик мимо шкалы ничего не делает
	click.X = padLeft + progressWidth + 5
	model.Update(click)
	if len(opener.Last().Seeks()) != 1 {
		t.Error("Клик вне прогресс-бара не должен перематывать")
	}
}

func TestMouseClickSetsVolume(t *testing.T) {
	model, controller, _ := newTestModel(t, "A")

	start := padLeft + 3
	model.Update(tea.MouseMsg{
		X:      start + volumeBarWidth/4,
		Y:      model.volumeRow(),
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})

	if got := controller.Snapshot().Volume; got != 0.25 {
		t.Errorf("Ожидалась громкость 0.25, получено %v", got)
	}

	model.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if got := controller.Snapshot().Volume; math.Abs(got-0.4) > 1e-9 {
		t.Errorf("Колесо должно увеличивать громкость, получено %v", got)
	}
}

func TestBarFraction(t *testing.T) {
	tests := []struct {
		x, start, width int
		expected        float64
		ok              bool
	}{
		{2, 2, 40, 0, true},
		{22, 2, 40, 0.5, true},
		{41, 2, 40, 0.975, true},
		{42, 2, 40, 0, false},
		{1, 2, 40, 0, false},
		{5, 2, 0, 0, false},
	}

	for _, tt := range tests {
		got, ok := barFraction(tt.x, tt.start, tt.width)
		if ok != tt.ok || got != tt.expected {
			t.Errorf("barFraction(%d, %d, %d) = %v, %v; ожидалось %v, %v", tt.x, tt.start, tt.width, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestFormatState(t *testing.T) {
	if formatState(transport.StatePlaying) != "Воспроизведение" {
		t.Error("Expected 'Воспроизведение' for playing state")
	}
	if formatState(transport.StatePaused) != "Пауза" {
		t.Error("Expected 'Пауза' for paused state")
	}
}
