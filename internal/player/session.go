// Package player содержит компоненты для управления воспроизведением аудио
package player

import (
	"errors"
	"time"

	"github.com/hazadus/simplemedia/internal/metadata"
)

// Unknown обозначает длительность, которая еще не известна (или недоступна для потока)
const Unknown time.Duration = -1

var (
	// ErrUnsupportedFormat возвращается, если файл не удалось декодировать
	ErrUnsupportedFormat = errors.New("неподдерживаемый формат")
	// ErrIO возвращается, если файл или поток не удалось открыть
	ErrIO = errors.New("ошибка ввода-вывода")
)

// Status описывает состояние сессии воспроизведения
type Status int

// Состояния сессии
const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusPlaying
	StatusPaused
	StatusEnded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusEnded:
		return "ended"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// EventKind различает уведомления сессии
type EventKind int

// Виды уведомлений
const (
	// EventReady: трек декодирован, длительность известна (или Unknown)
	EventReady EventKind = iota
	// EventEndOfMedia: трек доигран до конца
	EventEndOfMedia
	// EventError: трек не открылся или сломался во время воспроизведения
	EventError
	// EventPosition: периодическое обновление позиции
	EventPosition
	// EventMetadata: теги трека прочитаны (Err сообщает о замене значениями по умолчанию)
	EventMetadata
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventEndOfMedia:
		return "end-of-media"
	case EventError:
		return "error"
	case EventPosition:
		return "position"
	case EventMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

// Event уведомление от сессии. Session содержит ID сессии-источника,
// чтобы получатель мог отбросить уведомления от замененных сессий.
type Event struct {
	Session  uint64
	Kind     EventKind
	Position time.Duration
	Duration time.Duration
	Metadata metadata.TrackMetadata
	Err      error
}

// Session одна открытая цепочка декодирования и вывода, привязанная к одному треку
type Session interface {
	ID() uint64
	Ref() string
	Play()
	Pause()
	Stop()
	Seek(position time.Duration)
	SetVolume(level float64)
	SetMute(muted bool)
	Position() time.Duration
	Duration() time.Duration
	Status() Status
	Close() error
}

// Opener открывает сессии воспроизведения. Open не должен ждать декодирования:
// готовность или ошибка сообщаются уведомлением сессии.
type Opener interface {
	Open(ref string) (Session, error)
}

// clampLevel ограничивает уровень громкости диапазоном [0, 1]
func clampLevel(level float64) float64 {
	if level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}
