// Package cover рисует обложку альбома символами в терминале
package cover

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nfnt/resize"
)

// Каждая ячейка терминала показывает два пикселя: верхний цветом символа,
// нижний цветом фона
const halfBlock = "▀"

// Renderer кэширует последнюю отрисованную обложку
type Renderer struct {
	width  int
	height int

	source image.Image
	cached string
}

// New создает рендерер обложки размером width x height ячеек
func New(width, height int) *Renderer {
	return &Renderer{width: width, height: height}
}

// SetSize меняет размер обложки в ячейках
func (r *Renderer) SetSize(width, height int) {
	if r.width == width && r.height == height {
		return
	}
	r.width = width
	r.height = height
	r.source = nil
	r.cached = ""
}

// Size возвращает размер обложки в ячейках
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Render возвращает обложку в виде строк терминала. Для nil возвращает
// пустой прямоугольник нужного размера.
func (r *Renderer) Render(img image.Image) string {
	if img == nil || r.width <= 0 || r.height <= 0 {
		return blank(r.width, r.height)
	}
	if img == r.source && r.cached != "" {
		return r.cached
	}

	r.source = img
	r.cached = render(img, r.width, r.height)
	return r.cached
}

func render(img image.Image, width, height int) string {
	scaled := resize.Resize(uint(width), uint(height*2), img, resize.Lanczos3)
	bounds := scaled.Bounds()

	var b strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			x := bounds.Min.X + col
			top := hexColor(scaled, x, bounds.Min.Y+row*2)
			bottom := hexColor(scaled, x, bounds.Min.Y+row*2+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render(halfBlock))
		}
		if row < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func hexColor(img image.Image, x, y int) string {
	r, g, b, _ := img.At(x, y).RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func blank(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	line := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
