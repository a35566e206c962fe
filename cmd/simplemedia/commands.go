package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hazadus/simplemedia/internal/playlist"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "simplemedia [files, directories or URLs...]",
		Short: "A simple mp3 player",
		Long:  `A simple mp3 player with a terminal interface, a desktop window and media keys support.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return app.loadConfig()
		},
		RunE: func(_ *cobra.Command, args []string) error {
			refs, err := playlist.Collect(args, app.Config.Extensions)
			if err != nil {
				return err
			}
			return app.launchTUI(ctx, refs)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "path to config file")

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createGUICommand(ctx))
	rootCmd.AddCommand(app.createInfoCommand())
	rootCmd.AddCommand(app.createS3Command(ctx))

	return rootCmd
}
