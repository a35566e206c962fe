// Package playlist содержит упорядоченный список треков с курсором текущей позиции
package playlist

import "errors"

var (
	// ErrEmptyPlaylist возвращается при навигации по пустому плейлисту
	ErrEmptyPlaylist = errors.New("плейлист пуст")
	// ErrIndexOutOfRange возвращается при выборе несуществующей позиции
	ErrIndexOutOfRange = errors.New("индекс вне диапазона плейлиста")
)

// NoTrack значение курсора, когда ни один трек не выбран
const NoTrack = -1

// Playlist хранит ссылки на треки (пути к файлам или URL) и текущую позицию.
// Переходы вперед и назад всегда зацикливаются.
type Playlist struct {
	refs   []string
	cursor int
}

// New создает пустой плейлист
func New() *Playlist {
	return &Playlist{
		refs:   make([]string, 0),
		cursor: NoTrack,
	}
}

// Append добавляет треки в конец, сохраняя порядок. Курсор не меняется.
func (p *Playlist) Append(refs ...string) {
	if len(refs) == 0 {
		return
	}
	p.refs = append(p.refs, refs...)
}

// Next переходит к следующему треку, после последнего возвращается к первому
func (p *Playlist) Next() (string, error) {
	if len(p.refs) == 0 {
		return "", ErrEmptyPlaylist
	}
	p.cursor++
	if p.cursor >= len(p.refs) || p.cursor < 0 {
		p.cursor = 0
	}
	return p.refs[p.cursor], nil
}

// Previous переходит к предыдущему треку, перед первым идет последний
func (p *Playlist) Previous() (string, error) {
	if len(p.refs) == 0 {
		return "", ErrEmptyPlaylist
	}
	p.cursor--
	if p.cursor < 0 || p.cursor >= len(p.refs) {
		p.cursor = len(p.refs) - 1
	}
	return p.refs[p.cursor], nil
}

// Select делает текущим трек с указанным индексом
func (p *Playlist) Select(index int) (string, error) {
	if index < 0 || index >= len(p.refs) {
		return "", ErrIndexOutOfRange
	}
	p.cursor = index
	return p.refs[index], nil
}

// Current возвращает текущий трек, если он выбран
func (p *Playlist) Current() (string, bool) {
	if p.cursor < 0 || p.cursor >= len(p.refs) {
		return "", false
	}
	return p.refs[p.cursor], true
}

// Cursor возвращает индекс текущего трека или NoTrack
func (p *Playlist) Cursor() int {
	return p.cursor
}

// Len возвращает количество треков
func (p *Playlist) Len() int {
	return len(p.refs)
}

// Tracks возвращает копию списка треков
func (p *Playlist) Tracks() []string {
	result := make([]string, len(p.refs))
	copy(result, p.refs)
	return result
}
