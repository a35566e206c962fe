package cover

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRenderSize(t *testing.T) {
	r := New(8, 4)
	out := r.Render(solidImage(64, 64, color.RGBA{R: 200, A: 255}))

	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("Ожидалось 4 строки, получено %d", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 8 {
			t.Errorf("Строка %d: ожидалась ширина 8, получено %d", i, w)
		}
	}
}

func TestRenderNilImage(t *testing.T) {
	r := New(6, 3)
	out := r.Render(nil)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("Ожидалось 3 строки, получено %d", len(lines))
	}
	if strings.TrimSpace(out) != "" {
		t.Error("Без обложки должен быть пустой прямоугольник")
	}
}

func TestRenderCachesSameImage(t *testing.T) {
	r := New(4, 2)
	img := solidImage(16, 16, color.White)

	first := r.Render(img)
	if r.source != img {
		t.Fatal("Обложка должна кэшироваться")
	}
	if second := r.Render(img); second != first {
		t.Error("Повторная отрисовка должна возвращать кэш")
	}

	r.SetSize(6, 3)
	if r.cached != "" {
		t.Error("Смена размера должна сбрасывать кэш")
	}
}

func TestHexColor(t *testing.T) {
	img := solidImage(1, 1, color.RGBA{R: 0x12, G: 0xab, B: 0xff, A: 255})
	if got := hexColor(img, 0, 0); got != "#12abff" {
		t.Errorf("hexColor = %s, ожидалось #12abff", got)
	}
}
