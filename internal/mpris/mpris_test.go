//go:build linux

package mpris

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/hazadus/simplemedia/internal/metadata"
	"github.com/hazadus/simplemedia/internal/player"
	"github.com/hazadus/simplemedia/internal/transport"
)

// newTestAdapter возвращает адаптер, выполняющий команды сразу
func newTestAdapter(t *testing.T, refs ...string) (*playerAdapter, *transport.Controller, *player.MockOpener) {
	t.Helper()
	opener := player.NewMockOpener()
	controller := transport.NewController(opener, metadata.NewExtractor(), transport.DefaultOptions())
	t.Cleanup(controller.Close)

	st := &state{}
	controller.Subscribe(st.set)

	if len(refs) > 0 {
		_ = controller.Add(refs...)
		sess := opener.Last()
		controller.HandleEvent(player.Event{Session: sess.ID(), Kind: player.EventReady, Duration: sess.Duration()})
	}

	dispatch := func(fn func(c *transport.Controller)) { fn(controller) }
	return &playerAdapter{dispatch: dispatch, state: st}, controller, opener
}

func TestPlayPauseCommands(t *testing.T) {
	p, controller, _ := newTestAdapter(t, "A", "B")

	if status, _ := p.PlaybackStatus(); status != types.PlaybackStatusPlaying {
		t.Errorf("Ожидался статус Playing, получено %s", status)
	}

	_ = p.Pause()
	if controller.State() != transport.StatePaused {
		t.Errorf("Pause должен ставить на паузу, состояние %s", controller.State())
	}
	// Повторная пауза не возобновляет
	_ = p.Pause()
	if controller.State() != transport.StatePaused {
		t.Errorf("Повторный Pause не должен менять состояние, получено %s", controller.State())
	}

	_ = p.Play()
	if controller.State() != transport.StatePlaying {
		t.Errorf("Play должен возобновлять, состояние %s", controller.State())
	}

	_ = p.PlayPause()
	if status, _ := p.PlaybackStatus(); status != types.PlaybackStatusPaused {
		t.Errorf("Ожидался статус Paused, получено %s", status)
	}
}

func TestNavigationCommands(t *testing.T) {
	p, controller, _ := newTestAdapter(t, "A", "B")

	_ = p.Next()
	if controller.Snapshot().Ref != "B" {
		t.Errorf("Ожидался трек B, получен %s", controller.Snapshot().Ref)
	}
	_ = p.Previous()
	if controller.Snapshot().Ref != "A" {
		t.Errorf("Ожидался трек A, получен %s", controller.Snapshot().Ref)
	}

	if ok, _ := p.CanGoNext(); !ok {
		t.Error("Next доступен для непустого плейлиста")
	}
}

func TestSeekCommands(t *testing.T) {
	p, _, opener := newTestAdapter(t, "A")

	_ = p.SetPosition("", types.Microseconds((90 * time.Second).Microseconds()))
	if got := opener.Last().Position(); got != 90*time.Second {
		t.Errorf("Ожидалась позиция 1m30s, получено %v", got)
	}

	_ = p.Seek(types.Microseconds((10 * time.Second).Microseconds()))
	if got := opener.Last().Position(); got != 100*time.Second {
		t.Errorf("Ожидалась позиция 1m40s, получено %v", got)
	}

	if ok, _ := p.CanSeek(); !ok {
		t.Error("Перемотка доступна при известной длительности")
	}
}

func TestVolume(t *testing.T) {
	p, controller, _ := newTestAdapter(t, "A")

	_ = p.SetVolume(0.5)
	if v, _ := p.Volume(); v != 0.5 {
		t.Errorf("Ожидалась громкость 0.5, получено %v", v)
	}

	controller.ToggleMute()
	if v, _ := p.Volume(); v != 0 {
		t.Errorf("При mute громкость MPRIS равна 0, получено %v", v)
	}
}

func TestOpenUri(t *testing.T) {
	p, controller, _ := newTestAdapter(t)

	_ = p.OpenUri("file:///music/song.mp3")
	if got := controller.Playlist(); len(got) != 1 || got[0] != "/music/song.mp3" {
		t.Errorf("Ожидался трек /music/song.mp3, получено %v", got)
	}
}

func TestMetadata(t *testing.T) {
	p, _, _ := newTestAdapter(t)

	meta, _ := p.Metadata()
	if meta.Title != "" || meta.TrackId != "" {
		t.Errorf("Без трека метаданные пустые, получено %+v", meta)
	}

	p, _, _ = newTestAdapter(t, "/music/song.mp3")
	meta, _ = p.Metadata()
	if meta.Title != metadata.NotAvailable {
		t.Errorf("Ожидалось название N/A, получено %s", meta.Title)
	}
	if meta.Length != types.Microseconds((3 * time.Minute).Microseconds()) {
		t.Errorf("Неожиданная длительность %d", meta.Length)
	}
	if !strings.HasPrefix(string(meta.TrackId), "/org/mpris/MediaPlayer2/Track/") {
		t.Errorf("Неожиданный TrackId %s", meta.TrackId)
	}
}

func TestPlaybackStatusMapping(t *testing.T) {
	tests := []struct {
		state    transport.State
		expected types.PlaybackStatus
	}{
		{transport.StatePlaying, types.PlaybackStatusPlaying},
		{transport.StatePaused, types.PlaybackStatusPaused},
		{transport.StateLoading, types.PlaybackStatusPaused},
		{transport.StateNoTrack, types.PlaybackStatusStopped},
		{transport.StateError, types.PlaybackStatusStopped},
	}

	for _, tt := range tests {
		if got := playbackStatus(tt.state); got != tt.expected {
			t.Errorf("playbackStatus(%s) = %s, ожидалось %s", tt.state, got, tt.expected)
		}
	}
}

func TestFindAlbumArt(t *testing.T) {
	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.jpg")
	if err := os.WriteFile(coverPath, []byte("fake"), 0o600); err != nil {
		t.Fatal(err)
	}

	got := FindAlbumArt(filepath.Join(dir, "track.mp3"))
	if got != coverPath {
		t.Errorf("FindAlbumArt() = %q, want %q", got, coverPath)
	}
}

func TestFindAlbumArtPriority(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"folder.jpg", "cover.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("fake"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	got := FindAlbumArt(filepath.Join(dir, "track.mp3"))
	if got != filepath.Join(dir, "cover.png") {
		t.Errorf("FindAlbumArt() = %q, ожидалась cover.png", got)
	}
}

func TestFindAlbumArtNotFound(t *testing.T) {
	if got := FindAlbumArt(filepath.Join(t.TempDir(), "track.mp3")); got != "" {
		t.Errorf("FindAlbumArt() = %q, want empty string", got)
	}
}
