// Package keys содержит горячие клавиши TUI
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap горячие клавиши экрана воспроизведения
type KeyMap struct {
	PlayPause  key.Binding
	SeekBack   key.Binding
	SeekAhead  key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Mute       key.Binding
	Next       key.Binding
	Previous   key.Binding
	Playlist   key.Binding
	Browse     key.Binding
	Open       key.Binding
	Help       key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap возвращает раскладку по умолчанию
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PlayPause: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("пробел", "пауза/воспроизведение"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "назад"),
		),
		SeekAhead: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "вперед"),
		),
		VolumeUp: key.NewBinding(
			key.WithKeys("up", "+", "="),
			key.WithHelp("↑", "громче"),
		),
		VolumeDown: key.NewBinding(
			key.WithKeys("down", "-"),
			key.WithHelp("↓", "тише"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "без звука"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "следующий"),
		),
		Previous: key.NewBinding(
			key.WithKeys("p", "b"),
			key.WithHelp("p", "предыдущий"),
		),
		Playlist: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "плейлист"),
		),
		Browse: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "добавить файлы"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "открыть путь или URL"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "справка"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "назад"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "выход"),
		),
	}
}

// ShortHelp реализует help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Next, k.Previous, k.Playlist, k.Help, k.Quit}
}

// FullHelp реализует help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.SeekBack, k.SeekAhead, k.Next, k.Previous},
		{k.VolumeUp, k.VolumeDown, k.Mute},
		{k.Playlist, k.Browse, k.Open},
		{k.Help, k.Back, k.Quit},
	}
}
