// Package utils содержит утилитарные функции, используемые в разных частях приложения
package utils

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
)

// UnknownTime показывается вместо времени, если длительность неизвестна
const UnknownTime = "--:--"

// FormatDuration форматирует time.Duration в формат MM:SS (минуты не ограничены 59)
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return UnknownTime
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatLongDuration форматирует time.Duration в формат HH:MM:SS
func FormatLongDuration(d time.Duration) string {
	if d < 0 {
		return UnknownTime
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// TruncateString обрезает строку до указанной ширины в колонках терминала,
// добавляя "..." если строка длиннее
func TruncateString(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// PadRight дополняет строку пробелами до указанной ширины
func PadRight(s string, width int) string {
	return runewidth.FillRight(TruncateString(s, width), width)
}
