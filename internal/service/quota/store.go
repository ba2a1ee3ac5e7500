package quota

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// errCorrupt файл счётчиков прочитан, но не разбирается как JSON.
var errCorrupt = errors.New("quota: corrupt store file")

// Store долговременное key-value хранилище счётчиков. Значение, десятичная строка.
type Store interface {
	Load(ctx context.Context, key string) (value string, ok bool, err error)
	Save(ctx context.Context, key, value string) error
	Close() error
}

// DefaultPath путь хранилища по умолчанию для его типа.
func DefaultPath(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "sqlite", "sqlite3":
		return filepath.Join("data", "quota.db")
	default:
		return filepath.Join("data", "quota.json")
	}
}

// Open создаёт хранилище по имени из конфигурации (file|sqlite). Пустой путь: DefaultPath(kind).
func Open(kind, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "file":
		return NewFileStore(path), nil
	case "sqlite", "sqlite3":
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("quota: unknown store %q", kind)
	}
}

// FileStore хранит все счётчики одним JSON-объектом в файле.
type FileStore struct {
	Path string
	mu   sync.Mutex

	readFile func(name string) ([]byte, error)
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath("file")
	}
	return &FileStore{Path: path, readFile: os.ReadFile}
}

func (fs *FileStore) Load(_ context.Context, key string) (string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	m, err := fs.read()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

func (fs *FileStore) Save(_ context.Context, key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	m, err := fs.read()
	switch {
	case errors.Is(err, errCorrupt):
		// Повреждённый файл не должен блокировать учёт, начинаем заново.
		m = map[string]string{}
	case err != nil:
		// Ошибка чтения: перезапись потеряла бы счётчики других ключей.
		return err
	}
	m[key] = value
	return fs.write(m)
}

func (fs *FileStore) Close() error { return nil }

func (fs *FileStore) read() (map[string]string, error) {
	data, err := fs.readFile(fs.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("quota: read %s: %w", fs.Path, err)
	}
	m := map[string]string{}
	if len(data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errCorrupt, fs.Path, err)
	}
	return m, nil
}

// write атомарно: временный файл и rename.
func (fs *FileStore) write(m map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(fs.Path), 0o755); err != nil {
		return fmt.Errorf("quota: mkdir: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(fs.Path), ".quota-*.tmp")
	if err != nil {
		return fmt.Errorf("quota: temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("quota: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("quota: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), fs.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("quota: rename: %w", err)
	}
	return nil
}
