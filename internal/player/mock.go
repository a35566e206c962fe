package player

import (
	"sync"
	"time"
)

// MockOpener тестовая замена Engine: открывает MockSession и считает их
type MockOpener struct {
	mutex    sync.Mutex
	nextID   uint64
	openErrs map[string]error
	duration time.Duration
	sessions []*MockSession
}

// NewMockOpener создает фабрику тестовых сессий
func NewMockOpener() *MockOpener {
	return &MockOpener{
		openErrs: make(map[string]error),
		duration: 3 * time.Minute,
	}
}

// Open реализует Opener
func (m *MockOpener) Open(ref string) (Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err, ok := m.openErrs[ref]; ok {
		return nil, err
	}
	m.nextID++
	sess := &MockSession{
		id:       m.nextID,
		ref:      ref,
		status:   StatusReady,
		duration: m.duration,
		level:    1,
	}
	m.sessions = append(m.sessions, sess)
	return sess, nil
}

// SetOpenError заставляет Open вернуть ошибку для указанного трека
func (m *MockOpener) SetOpenError(ref string, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.openErrs[ref] = err
}

// SetDuration задает длительность будущих сессий (Unknown для потоков)
func (m *MockOpener) SetDuration(d time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.duration = d
}

// Sessions возвращает все открытые сессии в порядке открытия
func (m *MockOpener) Sessions() []*MockSession {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	result := make([]*MockSession, len(m.sessions))
	copy(result, m.sessions)
	return result
}

// Last возвращает последнюю открытую сессию
func (m *MockOpener) Last() *MockSession {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if len(m.sessions) == 0 {
		return nil
	}
	return m.sessions[len(m.sessions)-1]
}

// OpenCount возвращает количество незакрытых сессий
func (m *MockOpener) OpenCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	count := 0
	for _, s := range m.sessions {
		if !s.Closed() {
			count++
		}
	}
	return count
}

// MockSession тестовая сессия, запоминающая команды
type MockSession struct {
	mutex    sync.Mutex
	id       uint64
	ref      string
	status   Status
	position time.Duration
	duration time.Duration
	level    float64
	muted    bool
	closed   bool
	seeks    []time.Duration
}

func (s *MockSession) ID() uint64  { return s.id }
func (s *MockSession) Ref() string { return s.ref }

func (s *MockSession) Play() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.status == StatusReady || s.status == StatusPaused {
		s.status = StatusPlaying
	}
}

func (s *MockSession) Pause() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.status == StatusPlaying {
		s.status = StatusPaused
	}
}

func (s *MockSession) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.status = StatusIdle
}

func (s *MockSession) Seek(position time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if position < 0 {
		position = 0
	}
	if s.duration > 0 && position > s.duration {
		position = s.duration
	}
	s.seeks = append(s.seeks, position)
	s.position = position
}

func (s *MockSession) SetVolume(level float64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.level = clampLevel(level)
}

func (s *MockSession) SetMute(muted bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.muted = muted
}

func (s *MockSession) Position() time.Duration {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.position
}

func (s *MockSession) Duration() time.Duration {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.duration
}

func (s *MockSession) Status() Status {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.status
}

func (s *MockSession) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.status = StatusIdle
	s.closed = true
	return nil
}

// Вспомогательные методы для тестов

// Closed возвращает true после Close
func (s *MockSession) Closed() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.closed
}

// Volume возвращает последний заданный уровень
func (s *MockSession) Volume() float64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.level
}

// Muted возвращает последнее заданное состояние звука
func (s *MockSession) Muted() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.muted
}

// Audible возвращает уровень, который реально слышен
func (s *MockSession) Audible() float64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.muted {
		return 0
	}
	return s.level
}

// Seeks возвращает позиции всех вызовов Seek
func (s *MockSession) Seeks() []time.Duration {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	result := make([]time.Duration, len(s.seeks))
	copy(result, s.seeks)
	return result
}

// SetPosition задает текущую позицию
func (s *MockSession) SetPosition(d time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.position = d
}

// Проверка реализации интерфейсов на этапе компиляции
var (
	_ Session = (*MockSession)(nil)
	_ Session = (*beepSession)(nil)
	_ Opener  = (*MockOpener)(nil)
	_ Opener  = (*Engine)(nil)
)
