package metadata

import (
	"fmt"
	"image"
	"image/color"
	"os"
)

const placeholderSize = 64

// Placeholder рисует обложку по умолчанию: серая пластинка на темном фоне
func Placeholder() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	center := placeholderSize / 2
	background := color.RGBA{R: 0x2b, G: 0x2b, B: 0x30, A: 0xff}
	disc := color.RGBA{R: 0x8a, G: 0x8a, B: 0x90, A: 0xff}
	label := color.RGBA{R: 0xd0, G: 0xd0, B: 0xd4, A: 0xff}

	for y := 0; y < placeholderSize; y++ {
		for x := 0; x < placeholderSize; x++ {
			dx, dy := x-center, y-center
			dist := dx*dx + dy*dy
			switch {
			case dist <= 3*3:
				img.Set(x, y, background)
			case dist <= 10*10:
				img.Set(x, y, label)
			case dist <= 28*28:
				img.Set(x, y, disc)
			default:
				img.Set(x, y, background)
			}
		}
	}
	return img
}

// LoadPlaceholder загружает пользовательскую заглушку обложки из файла
func LoadPlaceholder(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия заглушки обложки: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования заглушки обложки: %w", err)
	}
	return img, nil
}
