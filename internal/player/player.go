package player

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"

	"github.com/hazadus/simplemedia/internal/streaming"
)

const (
	// DefaultPositionInterval период обновления позиции во время воспроизведения
	DefaultPositionInterval = 250 * time.Millisecond
	resampleQuality         = 4
	eventBufferSize         = 16
)

// output абстрагирует глобальный динамик beep
type output interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

type speakerOutput struct{}

func (speakerOutput) Init(sampleRate beep.SampleRate, bufferSize int) error {
	return speaker.Init(sampleRate, bufferSize)
}
func (speakerOutput) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerOutput) Clear()                  { speaker.Clear() }
func (speakerOutput) Lock()                   { speaker.Lock() }
func (speakerOutput) Unlock()                 { speaker.Unlock() }

// EngineOption настраивает Engine
type EngineOption func(*Engine)

// WithPositionInterval задает период уведомлений о позиции
func WithPositionInterval(interval time.Duration) EngineOption {
	return func(e *Engine) {
		if interval > 0 {
			e.interval = interval
		}
	}
}

// Engine открывает сессии поверх динамика beep. Динамик глобален,
// поэтому активной может быть только одна сессия: Open освобождает предыдущую.
type Engine struct {
	events   chan Event
	nextID   atomic.Uint64
	interval time.Duration
	out      output

	ctx    context.Context
	cancel context.CancelFunc

	mutex       sync.Mutex
	initialized bool
	sampleRate  beep.SampleRate
	active      *beepSession
}

// NewEngine создает новый движок воспроизведения
func NewEngine(opts ...EngineOption) *Engine {
	return newEngine(speakerOutput{}, opts...)
}

func newEngine(out output, opts ...EngineOption) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		events:   make(chan Event, eventBufferSize),
		interval: DefaultPositionInterval,
		out:      out,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Events возвращает канал уведомлений всех сессий движка.
// Канал не закрывается; после Close уведомления прекращаются.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Open создает сессию для трека (путь к файлу или URL) и сразу возвращает ее.
// Источник открывается и декодируется в отдельной горутине, результат
// приходит уведомлением EventReady или EventError.
func (e *Engine) Open(ref string) (Session, error) {
	ctx, cancel := context.WithCancel(e.ctx)
	sess := e.newHandle(ref)
	sess.cancel = cancel

	e.mutex.Lock()
	// Не держим две цепочки вывода одновременно
	if e.active != nil {
		e.active.release()
	}
	e.active = sess
	e.mutex.Unlock()

	go e.load(ctx, sess)

	return sess, nil
}

// Post доставляет уведомление в общий канал движка. Блокируется,
// пока получатель не освободит место или движок не будет закрыт.
func (e *Engine) Post(ev Event) {
	e.emit(ev)
}

// Close останавливает активную сессию и прекращает рассылку уведомлений
func (e *Engine) Close() error {
	e.mutex.Lock()
	if e.active != nil {
		e.active.release()
		e.active = nil
	}
	e.mutex.Unlock()

	e.cancel()
	return nil
}

// load декодирует трек и подключает его к сессии
func (e *Engine) load(ctx context.Context, sess *beepSession) {
	streamer, format, err := e.decode(ctx, sess.ref)
	if err != nil {
		if sess.fail() {
			e.emit(Event{Session: sess.id, Kind: EventError, Err: err})
		}
		return
	}

	e.mutex.Lock()
	// Инициализируем speaker (только один раз)
	if !e.initialized {
		if err := e.out.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			e.mutex.Unlock()
			streamer.Close()
			if sess.fail() {
				e.emit(Event{Session: sess.id, Kind: EventError, Err: fmt.Errorf("%w: ошибка инициализации динамиков: %v", ErrIO, err)})
			}
			return
		}
		e.initialized = true
		e.sampleRate = format.SampleRate
	}
	rate := e.sampleRate
	e.mutex.Unlock()

	if !sess.attach(streamer, format, rate) {
		// Сессию закрыли, пока трек декодировался
		streamer.Close()
		return
	}

	e.emit(Event{Session: sess.id, Kind: EventReady, Duration: sess.Duration()})
}

func (e *Engine) decode(ctx context.Context, ref string) (beep.StreamSeekCloser, beep.Format, error) {
	source, err := e.openSource(ctx, ref)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("%w: %s: %v", ErrIO, ref, err)
	}

	streamer, format, err := mp3.Decode(source)
	if err != nil {
		source.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, ref, err)
	}
	return streamer, format, nil
}

func (e *Engine) openSource(ctx context.Context, ref string) (io.ReadCloser, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return streaming.NewReader(ctx, ref, streaming.DefaultBufferSize)
	}
	return os.Open(ref)
}

// newHandle создает сессию в состоянии загрузки
func (e *Engine) newHandle(ref string) *beepSession {
	return &beepSession{
		id:     e.nextID.Add(1),
		ref:    ref,
		engine: e,
		status: StatusLoading,
		level:  1,
		done:   make(chan struct{}),
		cancel: func() {},
	}
}

// newSession создает сессию с уже декодированным потоком
func (e *Engine) newSession(ref string, streamer beep.StreamSeekCloser, format beep.Format) *beepSession {
	sess := e.newHandle(ref)
	sess.attach(streamer, format, e.sampleRate)
	return sess
}

// emit доставляет обязательное уведомление, пока движок не закрыт
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	case <-e.ctx.Done():
	}
}

// emitPosition отбрасывает обновление позиции, если получатель не успевает
func (e *Engine) emitPosition(ev Event) {
	select {
	case e.events <- ev:
	default:
	}
}

func (e *Engine) lockSpeaker()   { e.out.Lock() }
func (e *Engine) unlockSpeaker() { e.out.Unlock() }

// beepSession реализует Session поверх beep
type beepSession struct {
	id       uint64
	ref      string
	engine   *Engine
	streamer beep.StreamSeekCloser
	format   beep.Format
	volume   *effects.Volume
	ctrl     *beep.Ctrl

	mutex   sync.Mutex
	status  Status
	started bool
	closed  bool
	level   float64
	muted   bool
	done    chan struct{}
	cancel  context.CancelFunc
}

// attach собирает цепочку streamer -> resample -> volume -> ctrl.
// Возвращает false, если сессия уже закрыта.
func (s *beepSession) attach(streamer beep.StreamSeekCloser, format beep.Format, rate beep.SampleRate) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed || s.status != StatusLoading {
		return false
	}

	var stream beep.Streamer = streamer
	if rate != 0 && format.SampleRate != rate {
		stream = beep.Resample(resampleQuality, format.SampleRate, rate, streamer)
	}

	s.streamer = streamer
	s.format = format
	s.volume = &effects.Volume{Streamer: stream, Base: 2}
	s.ctrl = &beep.Ctrl{Streamer: s.volume, Paused: true}
	s.status = StatusReady
	s.applyVolume()
	return true
}

// fail переводит загружающуюся сессию в ошибку. Возвращает false,
// если сессия уже закрыта и уведомлять некого.
func (s *beepSession) fail() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed || s.status != StatusLoading {
		return false
	}
	s.status = StatusError
	return true
}

func (s *beepSession) ID() uint64  { return s.id }
func (s *beepSession) Ref() string { return s.ref }

// Status возвращает состояние сессии
func (s *beepSession) Status() Status {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.status
}

// Play запускает или возобновляет воспроизведение
func (s *beepSession) Play() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch s.status {
	case StatusReady:
		s.ctrl.Paused = false
		s.status = StatusPlaying
		s.started = true
		s.engine.out.Play(beep.Seq(s.ctrl, beep.Callback(func() {
			// Колбэк вызывается под блокировкой динамика, поэтому уходим в горутину
			go s.finish()
		})))
		go s.monitorProgress()
	case StatusPaused:
		s.engine.lockSpeaker()
		s.ctrl.Paused = false
		s.engine.unlockSpeaker()
		s.status = StatusPlaying
	}
}

// Pause приостанавливает воспроизведение
func (s *beepSession) Pause() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.status != StatusPlaying {
		return
	}
	s.engine.lockSpeaker()
	s.ctrl.Paused = true
	s.engine.unlockSpeaker()
	s.status = StatusPaused
}

// Stop останавливает воспроизведение; после Stop сессия больше не шлет уведомлений
func (s *beepSession) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stopLocked()
}

// stopLocked внутренний метод остановки (должен вызываться под мьютексом)
func (s *beepSession) stopLocked() {
	if s.status == StatusIdle {
		return
	}
	if s.started {
		s.engine.out.Clear()
	}
	s.status = StatusIdle
	s.closeDone()
}

func (s *beepSession) closeDone() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// Seek переходит к абсолютной позиции, ограниченной длительностью трека
func (s *beepSession) Seek(position time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed || s.streamer == nil || s.status == StatusIdle {
		return
	}

	s.engine.lockSpeaker()
	defer s.engine.unlockSpeaker()

	length := s.streamer.Len()
	if length <= 0 {
		return
	}
	n := s.format.SampleRate.N(position)
	if n < 0 {
		n = 0
	}
	if n > length {
		n = length
	}
	_ = s.streamer.Seek(n)
}

// Position возвращает текущую позицию
func (s *beepSession) Position() time.Duration {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed || s.streamer == nil {
		return 0
	}
	s.engine.lockSpeaker()
	defer s.engine.unlockSpeaker()
	return s.format.SampleRate.D(s.streamer.Position())
}

// Duration возвращает длительность трека или Unknown для потоков без длины
func (s *beepSession) Duration() time.Duration {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.streamer == nil {
		return Unknown
	}
	length := s.streamer.Len()
	if length <= 0 {
		return Unknown
	}
	return s.format.SampleRate.D(length)
}

// Close останавливает сессию и освобождает декодер
func (s *beepSession) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.closeLocked()
}

func (s *beepSession) closeLocked() error {
	s.stopLocked()
	if s.closed {
		return nil
	}
	s.closed = true
	// Прерываем чтение потока, если трек еще загружается
	s.cancel()
	if s.streamer == nil {
		return nil
	}
	return s.streamer.Close()
}

// release вызывается движком при замене активной сессии
func (s *beepSession) release() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	_ = s.closeLocked()
}

// finish обрабатывает окончание потока
func (s *beepSession) finish() {
	s.mutex.Lock()
	if s.status != StatusPlaying && s.status != StatusPaused {
		s.mutex.Unlock()
		return
	}

	ev := Event{Session: s.id, Kind: EventEndOfMedia}
	if err := s.streamer.Err(); err != nil {
		s.status = StatusError
		ev.Kind = EventError
		ev.Err = fmt.Errorf("ошибка декодирования %s: %w", s.ref, err)
	} else {
		s.status = StatusEnded
	}
	s.closeDone()
	s.mutex.Unlock()

	s.engine.emit(ev)
}

// monitorProgress периодически отправляет текущую позицию
func (s *beepSession) monitorProgress() {
	ticker := time.NewTicker(s.engine.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.engine.ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.mutex.Lock()
			if s.status != StatusPlaying {
				s.mutex.Unlock()
				continue
			}
			s.engine.lockSpeaker()
			current := s.format.SampleRate.D(s.streamer.Position())
			s.engine.unlockSpeaker()
			s.mutex.Unlock()

			s.engine.emitPosition(Event{
				Session:  s.id,
				Kind:     EventPosition,
				Position: current,
				Duration: s.Duration(),
			})
		}
	}
}
