package open

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestEnterCollectsTracks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mp3", "a.mp3", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Ошибка создания файла: %v", err)
		}
	}

	m := NewModel([]string{".mp3"})
	typeText(m, dir)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Ожидалась команда поиска треков")
	}

	msg, ok := cmd().(TracksChosenMsg)
	if !ok {
		t.Fatalf("Ожидалось TracksChosenMsg, получено %T", cmd())
	}
	expected := []string{filepath.Join(dir, "a.mp3"), filepath.Join(dir, "b.mp3")}
	if len(msg.Refs) != len(expected) {
		t.Fatalf("Ожидалось %v, получено %v", expected, msg.Refs)
	}
	for i := range expected {
		if msg.Refs[i] != expected[i] {
			t.Errorf("Трек %d: ожидался %s, получен %s", i, expected[i], msg.Refs[i])
		}
	}
}

func TestURLPassesThrough(t *testing.T) {
	m := NewModel([]string{".mp3"})
	typeText(m, "https://example.com/stream.mp3")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg, ok := cmd().(TracksChosenMsg)
	if !ok || len(msg.Refs) != 1 || msg.Refs[0] != "https://example.com/stream.mp3" {
		t.Errorf("URL должен добавляться как есть, получено %+v", msg)
	}
}

func TestEmptyInput(t *testing.T) {
	m := NewModel([]string{".mp3"})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("Пустой ввод не должен запускать поиск")
	}
	if m.err == "" {
		t.Error("Ожидалось сообщение об ошибке")
	}
}

func TestNoTracksFound(t *testing.T) {
	m := NewModel([]string{".mp3"})
	typeText(m, t.TempDir())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(cmd())
	if m.err == "" {
		t.Error("Ожидалось сообщение об отсутствии треков")
	}

	m.Reset()
	if m.err != "" || m.input.Value() != "" {
		t.Error("Reset должен очищать состояние")
	}
}

func TestEscGoesBack(t *testing.T) {
	m := NewModel(nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(GoBackMsg); !ok {
		t.Error("Ожидалось GoBackMsg")
	}
}
