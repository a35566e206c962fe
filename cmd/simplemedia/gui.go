package main

import (
	"context"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/hazadus/simplemedia/internal/gui"
	"github.com/hazadus/simplemedia/internal/playlist"
)

const appID = "io.github.hazadus.simplemedia"

// createGUICommand создает команду gui с привязкой к экземпляру приложения
func (app *Application) createGUICommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "gui [files, directories or URLs...]",
		Short: "Launch desktop window",
		Long:  `Launch the player in a desktop window with cover art, playlist and volume slider.`,
		RunE: func(_ *cobra.Command, args []string) error {
			refs, err := playlist.Collect(args, app.Config.Extensions)
			if err != nil {
				return err
			}
			return app.launchGUI(ctx, refs)
		},
	}
}

func (app *Application) launchGUI(ctx context.Context, refs []string) error {
	closeLog, err := app.openLog(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	engine := app.newEngine()
	defer func() { _ = engine.Close() }()

	controller := app.newController(engine, engine.Post)

	fyneApp := fyneapp.NewWithID(appID)
	window := gui.New(fyneApp, controller, gui.Options{
		MusicDir:   app.Config.MusicDir,
		Extensions: app.Config.Extensions,
		Logger:     app.Logger,
	})
	window.Listen(ctx, engine.Events())

	stopMpris := app.startMpris(controller, window.Dispatch)
	defer stopMpris()

	// Закрываем окно по сигналу
	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	if len(refs) > 0 {
		if err := controller.Add(refs...); err != nil {
			app.Logger.Printf("не удалось начать воспроизведение: %v", err)
		}
	}

	window.Run()
	return nil
}
