//go:build linux

package mpris

import (
	"os"
	"path/filepath"
)

// coverNames распространенные имена файлов обложек в порядке приоритета
var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"front.jpg", "front.png",
}

// FindAlbumArt ищет обложку в каталоге трека.
// Возвращает путь к файлу или пустую строку.
func FindAlbumArt(trackPath string) string {
	dir := filepath.Dir(trackPath)
	for _, name := range coverNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
