// Package s3 предоставляет треки из бакета Amazon S3 (или совместимого
// хранилища) в виде подписанных ссылок для потокового воспроизведения
package s3

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/hazadus/simplemedia/internal/playlist"
)

// DefaultURLExpiry срок действия подписанной ссылки
const DefaultURLExpiry = 12 * time.Hour

// Config содержит настройки для S3
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	BucketName string
	Extensions []string
	URLExpiry  time.Duration
}

// API подмножество клиента S3, которое использует Source
type API interface {
	ListObjectsV2PagesWithContext(ctx aws.Context, input *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, opts ...request.Option) error
	GetObjectRequest(input *s3.GetObjectInput) (*request.Request, *s3.GetObjectOutput)
}

// Object аудиофайл в бакете
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Source читает список треков из бакета
type Source struct {
	client API
	config *Config
}

// NewSource создает источник с клиентом S3 по настройкам
func NewSource(config *Config) (*Source, error) {
	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
	}

	// Если указан endpoint, добавляем его
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	return newSource(s3.New(sess), config), nil
}

func newSource(client API, config *Config) *Source {
	if config.URLExpiry <= 0 {
		config.URLExpiry = DefaultURLExpiry
	}
	if len(config.Extensions) == 0 {
		config.Extensions = []string{".mp3"}
	}
	return &Source{client: client, config: config}
}

// List возвращает аудиофайлы с указанным префиксом, отсортированные по ключу
func (s *Source) List(ctx context.Context, prefix string) ([]Object, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.config.BucketName),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var objects []Object
	err := s.client.ListObjectsV2PagesWithContext(ctx, input, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			key := aws.StringValue(obj.Key)
			if !playlist.IsAudioFile(key, s.config.Extensions) {
				continue
			}
			objects = append(objects, Object{
				Key:          key,
				Size:         aws.Int64Value(obj.Size),
				LastModified: aws.TimeValue(obj.LastModified),
			})
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка объектов: %w", err)
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Key < objects[j].Key
	})
	return objects, nil
}

// PresignURL возвращает временную ссылку на объект
func (s *Source) PresignURL(key string) (string, error) {
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(key),
	})

	url, err := req.Presign(s.config.URLExpiry)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи ссылки на %s: %w", key, err)
	}
	return url, nil
}

// Tracks возвращает подписанные ссылки на все аудиофайлы с префиксом
func (s *Source) Tracks(ctx context.Context, prefix string) ([]string, error) {
	objects, err := s.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(objects))
	for _, obj := range objects {
		url, err := s.PresignURL(obj.Key)
		if err != nil {
			return nil, err
		}
		refs = append(refs, url)
	}
	return refs, nil
}
