package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hazadus/simplemedia/internal/s3"
	"github.com/hazadus/simplemedia/internal/utils"
)

const listTimeout = 30 * time.Second

var errS3NotConfigured = errors.New("источник S3 не настроен: укажите aws_bucket_name и aws_region в конфигурации")

// createS3Command создает команду s3 с привязкой к экземпляру приложения
func (app *Application) createS3Command(ctx context.Context) *cobra.Command {
	var play bool

	cmd := &cobra.Command{
		Use:   "s3 [prefix]",
		Short: "List or play mp3 files from S3 bucket",
		Long:  `List mp3 files stored in S3 bucket or play them through presigned URLs.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			prefix := ""
			if len(args) > 0 {
				prefix = args[0]
			}
			return app.runS3(ctx, prefix, play)
		},
	}
	cmd.Flags().BoolVarP(&play, "play", "p", false, "play found tracks in terminal interface")

	return cmd
}

func (app *Application) newS3Source() (*s3.Source, error) {
	if !app.Config.HasS3() {
		return nil, errS3NotConfigured
	}

	source, err := s3.NewSource(&s3.Config{
		Region:     app.Config.AwsRegion,
		AccessKey:  app.Config.AwsAccessKey,
		SecretKey:  app.Config.AwsSecretKey,
		Endpoint:   app.Config.AwsEndpoint,
		BucketName: app.Config.AwsBucketName,
		Extensions: app.Config.Extensions,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания источника S3: %w", err)
	}
	return source, nil
}

func (app *Application) runS3(ctx context.Context, prefix string, play bool) error {
	source, err := app.newS3Source()
	if err != nil {
		return err
	}

	listCtx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	if play {
		refs, err := source.Tracks(listCtx, prefix)
		if err != nil {
			return err
		}
		if len(refs) == 0 {
			fmt.Println("📭 Треки не найдены")
			return nil
		}
		return app.launchTUI(ctx, refs)
	}

	objects, err := source.List(listCtx, prefix)
	if err != nil {
		return err
	}
	printObjects(objects)
	return nil
}

func printObjects(objects []s3.Object) {
	if len(objects) == 0 {
		fmt.Println("📭 Треки не найдены")
		return
	}

	fmt.Printf("☁️  Найдено треков: %d\n\n", len(objects))
	fmt.Printf("%s %-10s %s\n", utils.PadRight("Ключ", 50), "Размер", "Изменен")
	fmt.Println(strings.Repeat("-", 80))

	for _, obj := range objects {
		fmt.Printf("%s %-10s %s\n",
			utils.PadRight(utils.TruncateString(obj.Key, 50), 50),
			humanize.Bytes(uint64(obj.Size)),
			humanize.Time(obj.LastModified))
	}

	fmt.Println()
	fmt.Println("💡 Используйте 'simplemedia s3 --play [prefix]' для воспроизведения")
}
