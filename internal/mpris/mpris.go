//go:build linux

// Package mpris публикует плеер в D-Bus по протоколу MPRIS, чтобы
// медиаклавиши и апплеты рабочего стола могли им управлять.
package mpris

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/hazadus/simplemedia/internal/playlist"
	"github.com/hazadus/simplemedia/internal/transport"
)

// Dispatcher передает команду в цикл событий, владеющий контроллером
type Dispatcher func(fn func(c *transport.Controller))

// Adapter связывает контроллер воспроизведения с MPRIS
type Adapter struct {
	server *server.Server
	state  *state
}

// New создает и запускает адаптер MPRIS
func New(dispatch Dispatcher) (*Adapter, error) {
	if dispatch == nil {
		return nil, fmt.Errorf("mpris: не задан обработчик команд")
	}

	st := &state{}
	a := &Adapter{state: st}
	a.server = server.NewServer("simplemedia", &rootAdapter{dispatch: dispatch}, &playerAdapter{
		dispatch: dispatch,
		state:    st,
	})

	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Update сохраняет состояние контроллера для ответов на запросы D-Bus.
// Подписывается на контроллер через Subscribe.
func (a *Adapter) Update(s transport.Snapshot) {
	a.state.set(s)
}

// Close останавливает адаптер и освобождает ресурсы D-Bus
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// state последнее известное состояние контроллера
type state struct {
	mutex    sync.RWMutex
	snapshot transport.Snapshot
}

func (s *state) set(snapshot transport.Snapshot) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.snapshot = snapshot
}

func (s *state) get() transport.Snapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.snapshot
}

// rootAdapter реализует OrgMprisMediaPlayer2Adapter
type rootAdapter struct {
	dispatch Dispatcher
}

func (r *rootAdapter) Raise() error {
	return nil
}

func (r *rootAdapter) Quit() error {
	return nil
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "SimpleMedia", nil
}

//nolint:revive // Имя метода задано интерфейсом
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/mp3"}, nil
}

// playerAdapter реализует OrgMprisMediaPlayer2PlayerAdapter
type playerAdapter struct {
	dispatch Dispatcher
	state    *state
}

func (p *playerAdapter) Next() error {
	p.dispatch(func(c *transport.Controller) { _ = c.Next() })
	return nil
}

func (p *playerAdapter) Previous() error {
	p.dispatch(func(c *transport.Controller) { _ = c.Previous() })
	return nil
}

func (p *playerAdapter) Pause() error {
	p.dispatch(func(c *transport.Controller) {
		if c.State() == transport.StatePlaying {
			c.TogglePlayPause()
		}
	})
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.dispatch(func(c *transport.Controller) { c.TogglePlayPause() })
	return nil
}

// Stop ставит на паузу: остановленной сессии без трека у плеера нет
func (p *playerAdapter) Stop() error {
	return p.Pause()
}

func (p *playerAdapter) Play() error {
	p.dispatch(func(c *transport.Controller) {
		if c.State() != transport.StatePlaying {
			c.TogglePlayPause()
		}
	})
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	p.dispatch(func(c *transport.Controller) {
		c.SeekRelative(time.Duration(offset) * time.Microsecond)
	})
	return nil
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	p.dispatch(func(c *transport.Controller) {
		s := c.Snapshot()
		if s.Duration <= 0 {
			return
		}
		c.SeekToFraction(float64(time.Duration(position)*time.Microsecond) / float64(s.Duration))
	})
	return nil
}

//nolint:revive // Имя метода задано интерфейсом
func (p *playerAdapter) OpenUri(uri string) error {
	ref := strings.TrimPrefix(uri, "file://")
	p.dispatch(func(c *transport.Controller) { _ = c.Add(ref) })
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.state.get().State), nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	return metadataFor(p.state.get()), nil
}

func (p *playerAdapter) Volume() (float64, error) {
	s := p.state.get()
	if s.Muted {
		return 0, nil
	}
	return s.Volume, nil
}

func (p *playerAdapter) SetVolume(volume float64) error {
	p.dispatch(func(c *transport.Controller) { c.SetVolume(volume) })
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.state.get().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

// Переход по плейлисту циклический, поэтому next и previous доступны всегда,
// когда плейлист не пуст
func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.state.get().Count > 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.state.get().Count > 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.state.get().Count > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.state.get().Duration > 0, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus реализует OrgMprisMediaPlayer2PlayerAdapterLoopStatus
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	return types.LoopStatusPlaylist, nil
}

// SetLoopStatus реализует OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
// Плейлист всегда зациклен.
func (p *playerAdapter) SetLoopStatus(_ types.LoopStatus) error {
	return nil
}

func playbackStatus(st transport.State) types.PlaybackStatus {
	switch st {
	case transport.StatePlaying:
		return types.PlaybackStatusPlaying
	case transport.StatePaused, transport.StateReady, transport.StateLoading:
		return types.PlaybackStatusPaused
	default:
		return types.PlaybackStatusStopped
	}
}

func metadataFor(s transport.Snapshot) types.Metadata {
	if s.Ref == "" {
		return types.Metadata{}
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(s.Ref)),
		Title:   s.Metadata.Title,
		Artist:  []string{s.Metadata.Artist},
		Album:   s.Metadata.Album,
	}
	if s.Duration > 0 {
		meta.Length = types.Microseconds(s.Duration.Microseconds())
	}
	if !playlist.IsRemote(s.Ref) {
		if artPath := FindAlbumArt(s.Ref); artPath != "" {
			meta.ArtUrl = "file://" + artPath
		}
	}
	return meta
}

func formatTrackID(ref string) string {
	h := fnv.New64a()
	h.Write([]byte(ref))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
