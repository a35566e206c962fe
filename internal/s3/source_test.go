package s3

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// MockS3Client мок для S3 клиента. Подпись ссылок выполняет настоящий
// клиент: она не требует сети.
type MockS3Client struct {
	*s3.S3
	pages     []*s3.ListObjectsV2Output
	listErr   error
	lastInput *s3.ListObjectsV2Input
}

func (m *MockS3Client) ListObjectsV2PagesWithContext(ctx aws.Context, input *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, opts ...request.Option) error {
	m.lastInput = input
	if m.listErr != nil {
		return m.listErr
	}
	for i, page := range m.pages {
		if !fn(page, i == len(m.pages)-1) {
			break
		}
	}
	return nil
}

func newMockClient(t *testing.T, pages ...*s3.ListObjectsV2Output) *MockS3Client {
	t.Helper()
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String("us-east-1"),
		Credentials:      credentials.NewStaticCredentials("test-access-key", "test-secret-key", ""),
		Endpoint:         aws.String("http://localhost:9000"),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		t.Fatalf("Ошибка создания сессии: %v", err)
	}
	return &MockS3Client{S3: s3.New(sess), pages: pages}
}

func object(key string, size int64) *s3.Object {
	return &s3.Object{Key: aws.String(key), Size: aws.Int64(size), LastModified: aws.Time(time.Unix(0, 0))}
}

func testConfig() *Config {
	return &Config{
		Region:     "us-east-1",
		AccessKey:  "test-access-key",
		SecretKey:  "test-secret-key",
		BucketName: "music-bucket",
	}
}

func TestListFiltersAndSorts(t *testing.T) {
	client := newMockClient(t,
		&s3.ListObjectsV2Output{Contents: []*s3.Object{
			object("album/02.mp3", 200),
			object("album/cover.jpg", 10),
		}},
		&s3.ListObjectsV2Output{Contents: []*s3.Object{
			object("album/01.MP3", 100),
			object("album/notes.txt", 5),
		}},
	)
	source := newSource(client, testConfig())

	objects, err := source.List(context.Background(), "album/")
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}

	if len(objects) != 2 {
		t.Fatalf("Ожидалось 2 объекта, получено %d", len(objects))
	}
	if objects[0].Key != "album/01.MP3" || objects[1].Key != "album/02.mp3" {
		t.Errorf("Неожиданный порядок: %s, %s", objects[0].Key, objects[1].Key)
	}
	if objects[1].Size != 200 {
		t.Errorf("Ожидался размер 200, получено %d", objects[1].Size)
	}
	if aws.StringValue(client.lastInput.Prefix) != "album/" {
		t.Errorf("Ожидался префикс album/, получено %s", aws.StringValue(client.lastInput.Prefix))
	}
	if aws.StringValue(client.lastInput.Bucket) != "music-bucket" {
		t.Errorf("Ожидался бакет music-bucket, получено %s", aws.StringValue(client.lastInput.Bucket))
	}
}

func TestListWithoutPrefix(t *testing.T) {
	client := newMockClient(t)
	source := newSource(client, testConfig())

	if _, err := source.List(context.Background(), ""); err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if client.lastInput.Prefix != nil {
		t.Error("Пустой префикс не должен передаваться")
	}
}

func TestListErrorHandling(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{"InvalidAccessKey", awserr.New("InvalidAccessKeyId", "The AWS Access Key Id you provided does not exist in our records.", nil)},
		{"NoSuchBucket", awserr.New("NoSuchBucket", "The specified bucket does not exist", nil)},
		{"AccessDenied", awserr.New("AccessDenied", "Access Denied", nil)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newMockClient(t)
			client.listErr = tc.err
			source := newSource(client, testConfig())

			_, err := source.List(context.Background(), "")
			if err == nil {
				t.Fatal("Ожидалась ошибка")
			}
			if !strings.Contains(err.Error(), "ошибка получения списка объектов") {
				t.Errorf("Неожиданное сообщение об ошибке: %v", err)
			}

			var aerr awserr.Error
			if !errors.As(err, &aerr) || aerr.Code() != tc.err.(awserr.Error).Code() {
				t.Errorf("Ожидалась ошибка AWS %s, получено %v", tc.name, err)
			}
		})
	}
}

func TestPresignURL(t *testing.T) {
	source := newSource(newMockClient(t), testConfig())

	url, err := source.PresignURL("album/01.mp3")
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}

	if !strings.HasPrefix(url, "http://localhost:9000/music-bucket/album/01.mp3?") {
		t.Errorf("Неожиданная ссылка: %s", url)
	}
	if !strings.Contains(url, "X-Amz-Signature=") {
		t.Errorf("Ссылка должна быть подписана: %s", url)
	}
	if !strings.Contains(url, "X-Amz-Expires=43200") {
		t.Errorf("Ожидался срок действия 12 часов: %s", url)
	}
}

func TestTracks(t *testing.T) {
	client := newMockClient(t, &s3.ListObjectsV2Output{Contents: []*s3.Object{
		object("b.mp3", 1),
		object("a.mp3", 1),
	}})
	source := newSource(client, testConfig())

	refs, err := source.Tracks(context.Background(), "")
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("Ожидалось 2 ссылки, получено %d", len(refs))
	}
	if !strings.Contains(refs[0], "/music-bucket/a.mp3?") {
		t.Errorf("Первой должна быть a.mp3: %s", refs[0])
	}
}

// TestNewSource тестирует создание нового источника
func TestNewSource(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		config := testConfig()

		source, err := NewSource(config)
		if err != nil {
			t.Errorf("Неожиданная ошибка при создании источника: %v", err)
		}
		if source == nil {
			t.Fatal("Source не должен быть nil")
		}
		if source.config != config {
			t.Error("Конфигурация должна быть сохранена")
		}
		if config.URLExpiry != DefaultURLExpiry {
			t.Errorf("Ожидался срок действия по умолчанию, получено %v", config.URLExpiry)
		}
	})

	t.Run("ConfigWithEndpoint", func(t *testing.T) {
		config := testConfig()
		config.Endpoint = "https://custom-s3-endpoint.com"

		source, err := NewSource(config)
		if err != nil {
			t.Errorf("Неожиданная ошибка при создании источника с endpoint: %v", err)
		}
		if source == nil {
			t.Error("Source не должен быть nil")
		}
	})
}
