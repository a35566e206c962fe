package playlist

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// IsAudioFile проверяет расширение файла без учета регистра
func IsAudioFile(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// IsRemote возвращает true для ссылок http(s)
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// DisplayName возвращает короткое имя трека для списков: имя файла
// или последний сегмент пути URL без параметров запроса
func DisplayName(ref string) string {
	if !IsRemote(ref) {
		return filepath.Base(ref)
	}
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" || u.Path == "/" {
		return ref
	}
	name, err := url.PathUnescape(path.Base(u.Path))
	if err != nil {
		return path.Base(u.Path)
	}
	return name
}

// Collect превращает аргументы пользователя в список треков.
// Файлы фильтруются по расширению, каталоги обходятся рекурсивно
// и сортируются по пути. URL передаются как есть.
func Collect(paths []string, extensions []string) ([]string, error) {
	var refs []string
	for _, path := range paths {
		if IsRemote(path) {
			refs = append(refs, path)
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения %s: %w", path, err)
		}

		if !info.IsDir() {
			if IsAudioFile(path, extensions) {
				refs = append(refs, path)
			}
			continue
		}

		var found []string
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, walkErr error) error {
			if walkErr != nil {
				// Пропускаем недоступные каталоги и продолжаем обход
				return nil //nolint:nilerr
			}
			if d.IsDir() || !IsAudioFile(p, extensions) {
				return nil
			}
			found = append(found, p)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("ошибка обхода каталога %s: %w", path, err)
		}
		sort.Strings(found)
		refs = append(refs, found...)
	}
	return refs, nil
}
