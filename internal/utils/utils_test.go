package utils

import (
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{60 * time.Second, "01:00"},
		{3*time.Minute + 7*time.Second + 900*time.Millisecond, "03:07"},
		{61*time.Minute + 1*time.Second, "61:01"},
		{-1, UnknownTime},
	}

	for _, test := range tests {
		result := FormatDuration(test.duration)
		if result != test.expected {
			t.Errorf("FormatDuration(%v) = %s; expected %s", test.duration, result, test.expected)
		}
	}
}

func TestFormatLongDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "00:00:00"},
		{61*time.Minute + 1*time.Second, "01:01:01"},
		{25*time.Hour + 45*time.Minute + 30*time.Second, "25:45:30"},
		{-time.Second, UnknownTime},
	}

	for _, test := range tests {
		result := FormatLongDuration(test.duration)
		if result != test.expected {
			t.Errorf("FormatLongDuration(%v) = %s; expected %s", test.duration, result, test.expected)
		}
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a very long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"abcde", 4, "a..."},
		{"Кино - Группа крови", 10, "Кино - ..."},
	}

	for _, test := range tests {
		result := TruncateString(test.input, test.maxLen)
		if result != test.expected {
			t.Errorf("TruncateString(%s, %d) = %s; expected %s", test.input, test.maxLen, result, test.expected)
		}
	}
}

func TestTruncateWideRunes(t *testing.T) {
	result := TruncateString("東京事変の曲", 7)
	if w := runewidth.StringWidth(result); w > 7 {
		t.Errorf("Ширина %q = %d, ожидалось не больше 7", result, w)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight = %q, ожидалось %q", got, "ab   ")
	}
	if got := PadRight("abcdefgh", 6); runewidth.StringWidth(got) != 6 {
		t.Errorf("Ширина %q должна быть 6", got)
	}
}
