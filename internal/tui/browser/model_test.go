package browser

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewModel(t *testing.T) {
	m := NewModel("/music", []string{".mp3"})

	if m.picker.CurrentDirectory != "/music" {
		t.Errorf("Ожидался каталог /music, получен %s", m.picker.CurrentDirectory)
	}
	if len(m.picker.AllowedTypes) != 2 {
		t.Errorf("Ожидалось 2 варианта расширения, получено %v", m.picker.AllowedTypes)
	}
	if m.picker.DirAllowed {
		t.Error("Выбор каталогов должен быть выключен")
	}
}

func TestEscGoesBack(t *testing.T) {
	m := NewModel(t.TempDir(), []string{".mp3"})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("Ожидалась команда возврата")
	}
	if _, ok := cmd().(GoBackMsg); !ok {
		t.Error("Ожидалось GoBackMsg")
	}
}

func TestExtensionsWithCase(t *testing.T) {
	got := extensionsWithCase([]string{".mp3", ".Mp3"})
	expected := []string{".mp3", ".MP3", ".mp3", ".MP3"}

	if len(got) != len(expected) {
		t.Fatalf("Ожидалось %v, получено %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Элемент %d: ожидалось %s, получено %s", i, expected[i], got[i])
		}
	}
}
