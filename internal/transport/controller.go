// Package transport содержит контроллер воспроизведения: единственный конечный
// автомат приложения, связывающий команды пользователя, плейлист, сессии
// воспроизведения и чтение метаданных.
//
// Контроллер не потокобезопасен: команды и уведомления сессий должны
// доставляться последовательно из одного цикла событий.
package transport

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/hazadus/simplemedia/internal/metadata"
	"github.com/hazadus/simplemedia/internal/player"
	"github.com/hazadus/simplemedia/internal/playlist"
)

// Значения по умолчанию
const (
	DefaultVolume     = 0.25
	DefaultVolumeStep = 0.15
	DefaultSeekStep   = 5 * time.Second
)

// State состояние текущего трека
type State int

// Состояния контроллера
const (
	StateNoTrack State = iota
	StateLoading
	StateReady
	StatePlaying
	StatePaused
	StateEnded
	StateError
)

func (s State) String() string {
	switch s {
	case StateNoTrack:
		return "no-track"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// PlaybackError ошибка воспроизведения трека, видимая пользователю
type PlaybackError struct {
	Ref string
	Err error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("ошибка воспроизведения %s: %v", e.Ref, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}

// MetadataLoader читает метаданные трека. Возвращаемое значение пригодно
// к показу даже при ошибке.
type MetadataLoader interface {
	Load(ref string) (metadata.TrackMetadata, error)
	Default() metadata.TrackMetadata
}

// Snapshot состояние контроллера для отображения
type Snapshot struct {
	State    State
	Ref      string
	Index    int
	Count    int
	Metadata metadata.TrackMetadata
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Muted    bool
	Err      error
}

// Progress возвращает долю проигранного трека или 0, если длительность неизвестна
func (s Snapshot) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := float64(s.Position) / float64(s.Duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// IsPlaying возвращает true во время воспроизведения
func (s Snapshot) IsPlaying() bool {
	return s.State == StatePlaying
}

// Options настройки контроллера
type Options struct {
	Volume     float64
	VolumeStep float64
	SeekStep   time.Duration
	Logger     *log.Logger
	// Post доставляет уведомление EventMetadata обратно в цикл событий,
	// из которого вызывается HandleEvent. Без Post теги читаются сразу.
	Post func(player.Event)
}

// DefaultOptions возвращает настройки по умолчанию
func DefaultOptions() Options {
	return Options{
		Volume:     DefaultVolume,
		VolumeStep: DefaultVolumeStep,
		SeekStep:   DefaultSeekStep,
	}
}

// Controller управляет плейлистом и активной сессией воспроизведения
type Controller struct {
	playlist *playlist.Playlist
	opener   player.Opener
	loader   MetadataLoader
	logger   *log.Logger
	post     func(player.Event)

	volumeStep float64
	seekStep   time.Duration

	session  player.Session
	state    State
	ref      string
	meta     metadata.TrackMetadata
	position time.Duration
	duration time.Duration
	volume   float64
	muted    bool
	lastErr  error

	observers []func(Snapshot)
}

// NewController создает контроллер с пустым плейлистом
func NewController(opener player.Opener, loader MetadataLoader, opts Options) *Controller {
	if opts.VolumeStep <= 0 {
		opts.VolumeStep = DefaultVolumeStep
	}
	if opts.SeekStep <= 0 {
		opts.SeekStep = DefaultSeekStep
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}

	return &Controller{
		playlist:   playlist.New(),
		opener:     opener,
		loader:     loader,
		logger:     opts.Logger,
		post:       opts.Post,
		volumeStep: opts.VolumeStep,
		seekStep:   opts.SeekStep,
		state:      StateNoTrack,
		meta:       loader.Default(),
		duration:   player.Unknown,
		volume:     clamp(opts.Volume),
	}
}

// Subscribe регистрирует наблюдателя, которого вызывают после каждого изменения
func (c *Controller) Subscribe(fn func(Snapshot)) {
	c.observers = append(c.observers, fn)
}

// Snapshot возвращает текущее состояние
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		State:    c.state,
		Ref:      c.ref,
		Index:    c.playlist.Cursor(),
		Count:    c.playlist.Len(),
		Metadata: c.meta,
		Position: c.position,
		Duration: c.duration,
		Volume:   c.volume,
		Muted:    c.muted,
		Err:      c.lastErr,
	}
}

// State возвращает состояние текущего трека
func (c *Controller) State() State {
	return c.state
}

// Playlist возвращает список треков
func (c *Controller) Playlist() []string {
	return c.playlist.Tracks()
}

// VolumeStep возвращает шаг изменения громкости с клавиатуры
func (c *Controller) VolumeStep() float64 {
	return c.volumeStep
}

// SeekStep возвращает шаг перемотки с клавиатуры
func (c *Controller) SeekStep() time.Duration {
	return c.seekStep
}

// Add добавляет треки в конец плейлиста. Если ничего не загружено,
// загружается первый трек плейлиста.
func (c *Controller) Add(refs ...string) error {
	if len(refs) == 0 {
		return nil
	}
	c.playlist.Append(refs...)

	if c.playlist.Cursor() != playlist.NoTrack {
		c.notify()
		return nil
	}
	return c.Select(0)
}

// Select загружает трек с указанным индексом плейлиста
func (c *Controller) Select(index int) error {
	ref, err := c.playlist.Select(index)
	if err != nil {
		return err
	}
	return c.LoadTrack(ref)
}

// Next загружает следующий трек (после последнего идет первый)
func (c *Controller) Next() error {
	ref, err := c.playlist.Next()
	if err != nil {
		return err
	}
	return c.LoadTrack(ref)
}

// Previous загружает предыдущий трек (перед первым идет последний)
func (c *Controller) Previous() error {
	ref, err := c.playlist.Previous()
	if err != nil {
		return err
	}
	return c.LoadTrack(ref)
}

// LoadTrack освобождает текущую сессию и открывает новую для трека.
// Воспроизведение начнется после уведомления EventReady.
func (c *Controller) LoadTrack(ref string) error {
	c.release()

	c.ref = ref
	c.state = StateLoading
	c.meta = c.loader.Default()
	c.position = 0
	c.duration = player.Unknown
	c.lastErr = nil

	sess, err := c.opener.Open(ref)
	if err != nil {
		c.state = StateError
		c.lastErr = fmt.Errorf("ошибка открытия трека: %w", err)
		c.logger.Printf("не удалось открыть %s: %v", ref, err)
		c.notify()
		return c.lastErr
	}
	c.session = sess
	c.notify()
	return nil
}

// HandleEvent единственная точка приема уведомлений от сессий.
// Уведомления замененных сессий игнорируются.
func (c *Controller) HandleEvent(ev player.Event) {
	if c.session == nil || ev.Session != c.session.ID() {
		if ev.Kind != player.EventPosition {
			c.logger.Printf("пропущено устаревшее событие %s сессии %d", ev.Kind, ev.Session)
		}
		return
	}

	switch ev.Kind {
	case player.EventReady:
		c.onReady(ev)
	case player.EventEndOfMedia:
		c.onEndOfMedia()
	case player.EventError:
		c.onError(ev.Err)
	case player.EventPosition:
		c.position = ev.Position
		if ev.Duration > 0 {
			c.duration = ev.Duration
		}
		c.notify()
	case player.EventMetadata:
		c.applyMetadata(ev.Metadata, ev.Err)
		c.notify()
	}
}

func (c *Controller) onReady(ev player.Event) {
	if c.state != StateLoading {
		return
	}

	c.duration = ev.Duration
	c.session.SetVolume(c.volume)
	c.session.SetMute(c.muted)

	c.state = StateReady
	c.requestMetadata()
	c.notify()

	c.session.Play()
	c.state = StatePlaying
	c.notify()
}

// requestMetadata читает теги текущего трека. С Post чтение идет в горутине,
// а результат возвращается уведомлением с ID сессии.
func (c *Controller) requestMetadata() {
	ref := c.ref
	if c.post == nil {
		c.applyMetadata(c.loader.Load(ref))
		return
	}

	id := c.session.ID()
	loader, post := c.loader, c.post
	go func() {
		meta, err := loader.Load(ref)
		post(player.Event{Session: id, Kind: player.EventMetadata, Metadata: meta, Err: err})
	}()
}

func (c *Controller) applyMetadata(meta metadata.TrackMetadata, err error) {
	if err != nil {
		// Ошибка метаданных не мешает воспроизведению
		c.logger.Printf("метаданные %s: %v", c.ref, err)
	}
	c.meta = meta
}

func (c *Controller) onEndOfMedia() {
	if c.state != StatePlaying && c.state != StatePaused {
		return
	}
	c.state = StateEnded
	c.notify()

	if err := c.Next(); err != nil {
		c.logger.Printf("автопереход: %v", err)
	}
}

func (c *Controller) onError(err error) {
	if err == nil {
		err = errors.New("неизвестная ошибка")
	}
	c.session.Stop()
	c.state = StateError
	c.lastErr = &PlaybackError{Ref: c.ref, Err: err}
	c.logger.Printf("%v", c.lastErr)
	c.notify()
}

// TogglePlayPause ставит на паузу или продолжает воспроизведение.
// В состоянии ошибки повторно открывает текущий трек.
func (c *Controller) TogglePlayPause() {
	switch c.state {
	case StatePlaying:
		c.session.Pause()
		c.state = StatePaused
		c.notify()
	case StateReady, StatePaused:
		c.session.Play()
		c.state = StatePlaying
		c.notify()
	case StateError:
		if ref, ok := c.playlist.Current(); ok {
			_ = c.LoadTrack(ref)
		}
	case StateNoTrack:
		if c.playlist.Len() > 0 {
			_ = c.Select(0)
		}
	}
}

// SeekRelative перематывает на delta от текущей позиции. Границы трека
// соблюдает сессия.
func (c *Controller) SeekRelative(delta time.Duration) {
	if !c.canSeek() {
		return
	}
	target := c.session.Position() + delta
	if target < 0 {
		target = 0
	}
	c.session.Seek(target)
	c.position = c.session.Position()
	c.notify()
}

// SeekToFraction перематывает на долю f длительности трека.
// Возвращает false, если длительность неизвестна.
func (c *Controller) SeekToFraction(f float64) bool {
	if !c.canSeek() || c.duration <= 0 {
		return false
	}
	target := time.Duration(clamp(f) * float64(c.duration))
	c.session.Seek(target)
	c.position = c.session.Position()
	c.notify()
	return true
}

func (c *Controller) canSeek() bool {
	if c.session == nil {
		return false
	}
	switch c.state {
	case StateReady, StatePlaying, StatePaused:
		return true
	default:
		return false
	}
}

// SetVolume задает громкость в диапазоне [0, 1]. Уровень сохраняется
// между треками и не зависит от mute.
func (c *Controller) SetVolume(level float64) {
	c.volume = clamp(level)
	if c.session != nil {
		c.session.SetVolume(c.volume)
	}
	c.notify()
}

// SetVolumePercent задает громкость со шкалы 0..100
func (c *Controller) SetVolumePercent(percent float64) {
	c.SetVolume(percent / 100)
}

// AdjustVolume меняет громкость на step
func (c *Controller) AdjustVolume(step float64) {
	c.SetVolume(c.volume + step)
}

// ToggleMute переключает mute; состояние сохраняется между треками
func (c *Controller) ToggleMute() {
	c.muted = !c.muted
	if c.session != nil {
		c.session.SetMute(c.muted)
	}
	c.notify()
}

// Close освобождает активную сессию
func (c *Controller) Close() {
	c.release()
	c.state = StateNoTrack
}

// release останавливает и закрывает текущую сессию
func (c *Controller) release() {
	if c.session == nil {
		return
	}
	if err := c.session.Close(); err != nil {
		c.logger.Printf("ошибка закрытия сессии %d: %v", c.session.ID(), err)
	}
	c.session = nil
}

func (c *Controller) notify() {
	if len(c.observers) == 0 {
		return
	}
	snapshot := c.Snapshot()
	for _, fn := range c.observers {
		fn(snapshot)
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
