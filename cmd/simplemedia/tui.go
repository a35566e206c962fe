package main

import (
	"context"
	"io"

	"github.com/hazadus/simplemedia/internal/tui"
)

// launchTUI запускает терминальный интерфейс с треками refs
func (app *Application) launchTUI(ctx context.Context, refs []string) error {
	// Экран занят интерфейсом, поэтому без файла журнал отбрасывается
	closeLog, err := app.openLog(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	engine := app.newEngine()
	defer func() { _ = engine.Close() }()

	controller := app.newController(engine, engine.Post)
	tuiApp := tui.NewApp(ctx, controller, engine.Events(), tui.Options{
		MusicDir:   app.Config.MusicDir,
		Extensions: app.Config.Extensions,
	})

	stopMpris := app.startMpris(controller, tuiApp.Dispatch)
	defer stopMpris()

	if len(refs) > 0 {
		if err := controller.Add(refs...); err != nil {
			app.Logger.Printf("не удалось начать воспроизведение: %v", err)
		}
	}

	return tuiApp.Run()
}
