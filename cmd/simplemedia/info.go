package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hazadus/simplemedia/internal/metadata"
	"github.com/hazadus/simplemedia/internal/utils"
)

// createInfoCommand создает команду info с привязкой к экземпляру приложения
func (app *Application) createInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [file path...]",
		Short: "Show tags of mp3 files",
		Long:  `Display artist, title, album, duration and size of mp3 files.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			for _, path := range args {
				if err := app.printInfo(path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (app *Application) printInfo(path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	extractor := metadata.NewExtractor()
	meta, err := extractor.ExtractFromFile(path)
	if err != nil {
		// Теги не прочитаны, но остальное показать можно
		fmt.Printf("⚠️  %v\n", err)
	}

	duration := utils.UnknownTime
	if d, err := extractor.GetDuration(path); err == nil {
		duration = utils.FormatLongDuration(d)
	} else {
		app.Logger.Printf("длительность %s: %v", path, err)
	}

	cover := "нет"
	if meta.HasCover {
		bounds := meta.Cover.Bounds()
		cover = fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy())
	}

	fmt.Printf("🎵 %s\n", filepath.Base(path))
	fmt.Printf("   Исполнитель: %s\n", meta.Artist)
	fmt.Printf("   Название: %s\n", meta.Title)
	fmt.Printf("   Альбом: %s\n", meta.Album)
	fmt.Printf("   Продолжительность: %s\n", duration)
	fmt.Printf("   Размер: %s\n", humanize.Bytes(uint64(stat.Size())))
	fmt.Printf("   Обложка: %s\n", cover)
	fmt.Println()

	return nil
}
