// Package gui содержит оконный интерфейс плеера на Fyne
package gui

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/nfnt/resize"

	"github.com/hazadus/simplemedia/internal/player"
	"github.com/hazadus/simplemedia/internal/playlist"
	"github.com/hazadus/simplemedia/internal/transport"
	"github.com/hazadus/simplemedia/internal/utils"
)

// Размеры окна и обложки
const (
	windowWidth  = 420
	windowHeight = 640
	coverSize    = 256
)

// Options настройки окна
type Options struct {
	MusicDir   string
	Extensions []string
	Logger     *log.Logger
}

// Player главное окно плеера. Все обращения к контроллеру выполняются
// в главном потоке Fyne.
type Player struct {
	app        fyne.App
	window     fyne.Window
	controller *transport.Controller
	options    Options
	logger     *log.Logger

	cover       *canvas.Image
	coverSource image.Image
	songLabel   *widget.Label
	artistLabel *widget.Label
	albumLabel  *widget.Label
	stateLabel  *widget.Label
	errorLabel  *widget.Label
	currentTime *widget.Label
	totalTime   *widget.Label
	progress    *widget.Slider
	volume      *widget.Slider
	playButton  *widget.Button
	muteButton  *widget.Button
	trackList   *widget.List

	// updating выставляется, пока окно само двигает ползунки
	updating bool
	tracks   []string
	current  int
}

// New создает окно плеера
func New(a fyne.App, controller *transport.Controller, opts Options) *Player {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	p := &Player{
		app:        a,
		window:     a.NewWindow("SimpleMedia"),
		controller: controller,
		options:    opts,
		logger:     logger,
		current:    playlist.NoTrack,
	}

	p.window.SetContent(p.buildContent())
	p.window.Resize(fyne.NewSize(windowWidth, windowHeight))
	p.window.Canvas().SetOnTypedKey(p.onTypedKey)

	controller.Subscribe(p.render)
	p.render(controller.Snapshot())

	return p
}

// Window возвращает окно Fyne
func (p *Player) Window() fyne.Window {
	return p.window
}

// Dispatch выполняет команду контроллеру в главном потоке Fyne.
// Безопасен для вызова из других горутин.
func (p *Player) Dispatch(fn func(c *transport.Controller)) {
	fyne.Do(func() {
		fn(p.controller)
	})
}

// Listen передает уведомления сессий контроллеру, пока не отменен ctx
func (p *Player) Listen(ctx context.Context, events <-chan player.Event) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				fyne.Do(func() {
					p.controller.HandleEvent(ev)
				})
			}
		}
	}()
}

// Run показывает окно и блокируется до его закрытия
func (p *Player) Run() {
	p.window.ShowAndRun()
	p.controller.Close()
}

func (p *Player) buildContent() fyne.CanvasObject {
	p.cover = canvas.NewImageFromImage(nil)
	p.cover.FillMode = canvas.ImageFillContain
	p.cover.SetMinSize(fyne.NewSize(coverSize, coverSize))

	p.songLabel = newInfoLabel(fyne.TextStyle{Bold: true})
	p.artistLabel = newInfoLabel(fyne.TextStyle{})
	p.albumLabel = newInfoLabel(fyne.TextStyle{Italic: true})
	p.stateLabel = widget.NewLabel("")
	p.errorLabel = widget.NewLabel("")
	p.errorLabel.Wrapping = fyne.TextWrapWord
	p.errorLabel.Importance = widget.DangerImportance

	p.currentTime = widget.NewLabel(utils.FormatDuration(0))
	p.totalTime = widget.NewLabel(utils.UnknownTime)

	p.progress = widget.NewSlider(0, 1)
	p.progress.Step = 0.001
	p.progress.OnChangeEnded = p.onSeek

	p.volume = widget.NewSlider(0, 100)
	p.volume.Step = 1
	p.volume.OnChanged = p.onVolume

	p.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), p.controller.TogglePlayPause)
	p.muteButton = widget.NewButtonWithIcon("", theme.VolumeUpIcon(), p.controller.ToggleMute)
	prevButton := widget.NewButtonWithIcon("", theme.MediaSkipPreviousIcon(), func() { p.showError(p.controller.Previous()) })
	nextButton := widget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), func() { p.showError(p.controller.Next()) })
	openButton := widget.NewButtonWithIcon("", theme.FileIcon(), p.openFile)
	folderButton := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), p.openFolder)

	p.trackList = widget.NewList(
		func() int { return len(p.tracks) },
		func() fyne.CanvasObject {
			label := widget.NewLabel("")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(p.trackTitle(id))
		},
	)
	p.trackList.OnSelected = func(id widget.ListItemID) {
		p.trackList.UnselectAll()
		if id != p.current {
			p.showError(p.controller.Select(id))
		}
	}

	info := container.NewVBox(p.songLabel, p.artistLabel, p.albumLabel, p.stateLabel)
	times := container.NewBorder(nil, nil, p.currentTime, p.totalTime, p.progress)
	controls := container.NewHBox(
		layout.NewSpacer(),
		prevButton, p.playButton, nextButton,
		layout.NewSpacer(),
		openButton, folderButton,
	)
	volumeRow := container.NewBorder(nil, nil, p.muteButton, nil, p.volume)

	top := container.NewVBox(
		container.NewCenter(p.cover),
		info,
		times,
		controls,
		volumeRow,
		p.errorLabel,
	)

	return container.NewBorder(top, nil, nil, nil, p.trackList)
}

func newInfoLabel(style fyne.TextStyle) *widget.Label {
	label := widget.NewLabel("")
	label.TextStyle = style
	label.Alignment = fyne.TextAlignCenter
	label.Truncation = fyne.TextTruncateEllipsis
	return label
}

// render переносит состояние контроллера на виджеты
func (p *Player) render(s transport.Snapshot) {
	p.updating = true
	defer func() { p.updating = false }()

	p.songLabel.SetText(s.Metadata.Title)
	p.artistLabel.SetText(s.Metadata.Artist)
	p.albumLabel.SetText(s.Metadata.Album)
	p.stateLabel.SetText(formatState(s))
	p.setCover(s.Metadata.Cover)

	if s.Err != nil {
		p.errorLabel.SetText(s.Err.Error())
	} else {
		p.errorLabel.SetText("")
	}

	if s.IsPlaying() {
		p.playButton.SetIcon(theme.MediaPauseIcon())
	} else {
		p.playButton.SetIcon(theme.MediaPlayIcon())
	}
	if s.Muted {
		p.muteButton.SetIcon(theme.VolumeMuteIcon())
	} else {
		p.muteButton.SetIcon(theme.VolumeUpIcon())
	}

	p.currentTime.SetText(utils.FormatDuration(s.Position))
	p.totalTime.SetText(utils.FormatDuration(s.Duration))
	if s.Duration > 0 {
		p.progress.Enable()
	} else {
		p.progress.Disable()
	}
	p.progress.SetValue(s.Progress())
	p.volume.SetValue(s.Volume * 100)

	if s.Count != len(p.tracks) || s.Index != p.current {
		p.tracks = p.controller.Playlist()
		p.current = s.Index
		p.trackList.Refresh()
	}
}

func (p *Player) setCover(img image.Image) {
	if img == p.coverSource {
		return
	}
	p.coverSource = img
	if img == nil {
		p.cover.Image = nil
	} else {
		p.cover.Image = resize.Thumbnail(coverSize, coverSize, img, resize.Lanczos3)
	}
	p.cover.Refresh()
}

func (p *Player) trackTitle(id widget.ListItemID) string {
	if id < 0 || id >= len(p.tracks) {
		return ""
	}
	marker := "   "
	if id == p.current {
		marker = "▶ "
	}
	return fmt.Sprintf("%s%d. %s", marker, id+1, playlist.DisplayName(p.tracks[id]))
}

func (p *Player) onSeek(value float64) {
	if p.updating {
		return
	}
	p.controller.SeekToFraction(value)
}

func (p *Player) onVolume(value float64) {
	if p.updating {
		return
	}
	p.controller.SetVolumePercent(value)
}

func (p *Player) onTypedKey(ev *fyne.KeyEvent) {
	c := p.controller
	switch ev.Name {
	case fyne.KeySpace:
		c.TogglePlayPause()
	case fyne.KeyLeft:
		c.SeekRelative(-c.SeekStep())
	case fyne.KeyRight:
		c.SeekRelative(c.SeekStep())
	case fyne.KeyUp:
		c.AdjustVolume(c.VolumeStep())
	case fyne.KeyDown:
		c.AdjustVolume(-c.VolumeStep())
	case fyne.KeyM:
		c.ToggleMute()
	case fyne.KeyN:
		p.showError(c.Next())
	case fyne.KeyP:
		p.showError(c.Previous())
	}
}

func (p *Player) openFile() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		p.addTracks([]string{path})
	}, p.window)
	fd.SetFilter(storage.NewExtensionFileFilter(p.options.Extensions))
	p.setStartLocation(fd.SetLocation)
	fd.Show()
}

func (p *Player) openFolder() {
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		if uri == nil {
			return
		}
		p.chooseTracks(uri.Path())
	}, p.window)
	p.setStartLocation(fd.SetLocation)
	fd.Show()
}

func (p *Player) setStartLocation(set func(fyne.ListableURI)) {
	if p.options.MusicDir == "" {
		return
	}
	location, err := storage.ListerForURI(storage.NewFileURI(p.options.MusicDir))
	if err != nil {
		p.logger.Printf("каталог музыки недоступен: %v", err)
		return
	}
	set(location)
}

// addTracks добавляет файлы и каталоги в плейлист
func (p *Player) addTracks(paths []string) {
	refs, ok := p.collect(paths)
	if !ok {
		return
	}
	p.showError(p.controller.Add(refs...))
}

// chooseTracks показывает треки каталога и добавляет отмеченные.
// Диалог открытия файла в Fyne выбирает только один файл.
func (p *Player) chooseTracks(dir string) {
	refs, ok := p.collect([]string{dir})
	if !ok {
		return
	}
	chooser := newTrackChooser(dir, refs)
	d := dialog.NewCustomConfirm("Выбор треков", "Добавить", "Отмена",
		container.NewVScroll(chooser),
		func(confirmed bool) {
			if confirmed {
				p.showError(p.addSelected(dir, refs, chooser.Selected))
			}
		}, p.window)
	d.Resize(fyne.NewSize(windowWidth-40, windowHeight-120))
	d.Show()
}

func (p *Player) collect(paths []string) ([]string, bool) {
	refs, err := playlist.Collect(paths, p.options.Extensions)
	if err != nil {
		dialog.ShowError(err, p.window)
		return nil, false
	}
	if len(refs) == 0 {
		dialog.ShowInformation("Нет треков", "Подходящих файлов не найдено", p.window)
		return nil, false
	}
	return refs, true
}

// newTrackChooser создает список треков с отметками. Изначально отмечены все.
func newTrackChooser(dir string, refs []string) *widget.CheckGroup {
	labels := make([]string, len(refs))
	for i, ref := range refs {
		labels[i] = trackLabel(dir, ref)
	}
	chooser := widget.NewCheckGroup(labels, nil)
	chooser.SetSelected(labels)
	return chooser
}

// addSelected добавляет отмеченные треки в порядке обхода каталога
func (p *Player) addSelected(dir string, refs, selected []string) error {
	marked := make(map[string]bool, len(selected))
	for _, label := range selected {
		marked[label] = true
	}

	var picked []string
	for _, ref := range refs {
		if marked[trackLabel(dir, ref)] {
			picked = append(picked, ref)
		}
	}
	if len(picked) == 0 {
		return nil
	}
	return p.controller.Add(picked...)
}

func trackLabel(dir, ref string) string {
	rel, err := filepath.Rel(dir, ref)
	if err != nil {
		return filepath.Base(ref)
	}
	return rel
}

func (p *Player) showError(err error) {
	if err != nil {
		p.errorLabel.SetText(err.Error())
	}
}

func formatState(s transport.Snapshot) string {
	switch s.State {
	case transport.StateNoTrack:
		return "Нет трека"
	case transport.StateLoading:
		return "Загрузка..."
	case transport.StatePlaying:
		return fmt.Sprintf("Воспроизведение • %d из %d", s.Index+1, s.Count)
	case transport.StatePaused, transport.StateReady:
		return fmt.Sprintf("Пауза • %d из %d", s.Index+1, s.Count)
	case transport.StateEnded:
		return "Трек закончился"
	case transport.StateError:
		return "Ошибка"
	default:
		return ""
	}
}
