package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/simplemedia/internal/config"
	"github.com/hazadus/simplemedia/internal/metadata"
	"github.com/hazadus/simplemedia/internal/mpris"
	"github.com/hazadus/simplemedia/internal/player"
	"github.com/hazadus/simplemedia/internal/transport"
)

// Application хранит зависимости, общие для всех команд
type Application struct {
	Config     *config.Config
	Logger     *log.Logger
	configPath string
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &Application{}
	if err := app.createRootCommand(ctx).Execute(); err != nil {
		fmt.Println(err)
		return 1
	}
	return 0
}

// loadConfig загружает конфигурацию, если она еще не задана
func (app *Application) loadConfig() error {
	if app.Logger == nil {
		app.Logger = log.New(io.Discard, "", 0)
	}
	if app.Config != nil {
		return nil
	}

	cfg, err := config.LoadConfig(app.configPath)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	app.Config = cfg
	return nil
}

// openLog направляет журнал в файл из конфигурации или в fallback.
// Возвращает функцию закрытия файла.
func (app *Application) openLog(fallback io.Writer) (func(), error) {
	if app.Config.LogFile == "" {
		app.Logger = log.New(fallback, "simplemedia ", log.LstdFlags)
		return func() {}, nil
	}

	f, err := tea.LogToFile(app.Config.LogFile, "simplemedia")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия журнала %s: %w", app.Config.LogFile, err)
	}
	app.Logger = log.New(f, "simplemedia ", log.LstdFlags)
	return func() { _ = f.Close() }, nil
}

// newEngine создает движок воспроизведения с настройками из конфигурации
func (app *Application) newEngine() *player.Engine {
	return player.NewEngine(player.WithPositionInterval(app.Config.PositionInterval()))
}

// newController собирает контроллер поверх opener. Через post теги
// возвращаются в цикл событий интерфейса.
func (app *Application) newController(opener player.Opener, post func(player.Event)) *transport.Controller {
	var opts []metadata.Option
	if app.Config.PlaceholderArt != "" {
		img, err := metadata.LoadPlaceholder(app.Config.PlaceholderArt)
		if err != nil {
			app.Logger.Printf("заглушка обложки не загружена: %v", err)
		} else {
			opts = append(opts, metadata.WithPlaceholder(img))
		}
	}

	return transport.NewController(opener, metadata.NewExtractor(opts...), transport.Options{
		Volume:     app.Config.Volume(),
		VolumeStep: app.Config.VolumeStep,
		SeekStep:   app.Config.SeekStep(),
		Logger:     app.Logger,
		Post:       post,
	})
}

// startMpris публикует плеер в D-Bus. Возвращает функцию остановки.
func (app *Application) startMpris(controller *transport.Controller, dispatch mpris.Dispatcher) func() {
	if !app.Config.MprisEnabled() {
		return func() {}
	}

	adapter, err := mpris.New(dispatch)
	if err != nil {
		app.Logger.Printf("MPRIS недоступен: %v", err)
		return func() {}
	}
	controller.Subscribe(adapter.Update)
	adapter.Update(controller.Snapshot())

	return func() {
		if err := adapter.Close(); err != nil {
			app.Logger.Printf("ошибка остановки MPRIS: %v", err)
		}
	}
}
