// Package metadata предоставляет функционал для извлечения метаданных из аудио файлов
package metadata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // декодер JPEG для обложек
	_ "image/png"  // декодер PNG для обложек
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/mp3"
)

// NotAvailable подставляется вместо отсутствующего тега
const NotAvailable = "N/A"

// ErrMetadataParse оборачивает любые ошибки чтения тегов и обложки
var ErrMetadataParse = errors.New("ошибка чтения метаданных")

const (
	defaultRemoteLimit   = 1 << 20 // первый мегабайт потока, где лежит ID3v2
	defaultRemoteTimeout = 5 * time.Second
)

// TrackMetadata хранит метаданные трека. После создания не изменяется.
type TrackMetadata struct {
	Artist string
	Title  string
	Album  string
	Cover  image.Image
	// HasCover равен true, если обложка взята из файла, а не заглушка
	HasCover bool
}

// FileInfo содержит информацию о файле
type FileInfo struct {
	Size     int64
	Duration time.Duration
}

// Option настраивает Extractor
type Option func(*Extractor)

// WithPlaceholder задает изображение-заглушку для треков без обложки
func WithPlaceholder(img image.Image) Option {
	return func(e *Extractor) {
		if img != nil {
			e.placeholder = img
		}
	}
}

// WithHTTPClient задает HTTP клиент для чтения тегов из удаленных треков
func WithHTTPClient(client *http.Client) Option {
	return func(e *Extractor) {
		e.client = client
	}
}

// Extractor извлекает метаданные из аудио файлов
type Extractor struct {
	client      *http.Client
	placeholder image.Image
	remoteLimit int64
}

// NewExtractor создает новый экстрактор метаданных
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		client:      &http.Client{Timeout: defaultRemoteTimeout},
		placeholder: Placeholder(),
		remoteLimit: defaultRemoteLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Default возвращает метаданные по умолчанию: "N/A" и заглушку обложки
func (e *Extractor) Default() TrackMetadata {
	return TrackMetadata{
		Artist: NotAvailable,
		Title:  NotAvailable,
		Album:  NotAvailable,
		Cover:  e.placeholder,
	}
}

// Load читает метаданные локального файла или URL. Результат пригоден
// к показу всегда; ошибка лишь сообщает, что часть данных заменена
// значениями по умолчанию.
func (e *Extractor) Load(ref string) (TrackMetadata, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return e.ExtractFromURL(context.Background(), ref)
	}
	return e.ExtractFromFile(ref)
}

// ExtractFromReader извлекает метаданные из io.ReadSeeker
func (e *Extractor) ExtractFromReader(reader io.ReadSeeker) (TrackMetadata, error) {
	result := e.Default()

	// Сбрасываем reader в начало
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return result, fmt.Errorf("%w: %v", ErrMetadataParse, err)
	}

	m, err := tag.ReadFrom(reader)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrMetadataParse, err)
	}

	// Поля независимы: отсутствующий тег не влияет на остальные
	result.Artist = orDefault(m.Artist())
	result.Title = orDefault(m.Title())
	result.Album = orDefault(m.Album())

	pic := m.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return result, nil
	}

	img, _, err := image.Decode(bytes.NewReader(pic.Data))
	if err != nil {
		return result, fmt.Errorf("%w: обложка %s: %v", ErrMetadataParse, pic.MIMEType, err)
	}
	result.Cover = img
	result.HasCover = true

	return result, nil
}

// ExtractFromFile извлекает метаданные из файла
func (e *Extractor) ExtractFromFile(filePath string) (TrackMetadata, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return e.Default(), fmt.Errorf("%w: %v", ErrMetadataParse, err)
	}
	defer file.Close()

	return e.ExtractFromReader(file)
}

// ExtractFromURL читает начало удаленного трека и извлекает из него теги
func (e *Extractor) ExtractFromURL(ctx context.Context, url string) (TrackMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return e.Default(), fmt.Errorf("%w: %v", ErrMetadataParse, err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", e.remoteLimit-1))

	resp, err := e.client.Do(req)
	if err != nil {
		return e.Default(), fmt.Errorf("%w: %v", ErrMetadataParse, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return e.Default(), fmt.Errorf("%w: HTTP %s", ErrMetadataParse, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, e.remoteLimit))
	if err != nil {
		return e.Default(), fmt.Errorf("%w: %v", ErrMetadataParse, err)
	}

	return e.ExtractFromReader(bytes.NewReader(data))
}

// GetDuration получает длительность MP3 файла
func (e *Extractor) GetDuration(filePath string) (time.Duration, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	streamer, format, err := mp3.Decode(file)
	if err != nil {
		return 0, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

// GetFileInfo получает информацию о файле (размер и длительность)
func (e *Extractor) GetFileInfo(filePath string) (*FileInfo, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	duration, err := e.GetDuration(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения длительности: %w", err)
	}

	return &FileInfo{
		Size:     fileInfo.Size(),
		Duration: duration,
	}, nil
}

func orDefault(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return NotAvailable
	}
	return value
}
