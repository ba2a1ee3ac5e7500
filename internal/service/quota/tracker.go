package quota

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// DefaultCap дневной лимит генераций эталонного поведения.
const DefaultCap = 10

// ErrExhausted лимит генераций исчерпан. Квота рекомендательная: счётчик живёт на клиенте
// и сбрасывается удалением файла, это не граница безопасности.
var ErrExhausted = errors.New("quota: daily generation limit reached")

// Tracker счётчик генераций для одной идентичности.
type Tracker struct {
	store  Store
	cap    int
	logger *zap.SugaredLogger

	mu   sync.Mutex
	key  string
	used int
}

func NewTracker(store Store, capacity int, logger *zap.SugaredLogger) *Tracker {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &Tracker{store: store, cap: capacity, logger: logger}
}

// Load переключает трекер на ключ и читает сохранённое значение.
// Отсутствующее, нечитаемое значение или ошибка хранилища дают 0.
func (t *Tracker) Load(ctx context.Context, key string) int {
	used := 0
	v, ok, err := t.store.Load(ctx, key)
	switch {
	case err != nil:
		if t.logger != nil {
			t.logger.Warnw("Quota load failed", "key", key, "error", err)
		}
	case ok:
		n, perr := strconv.Atoi(strings.TrimSpace(v))
		if perr == nil && n > 0 {
			used = n
		}
	}

	t.mu.Lock()
	t.key = key
	t.used = used
	t.mu.Unlock()
	return used
}

// RecordGeneration увеличивает счётчик и сохраняет его до возврата.
// Вызывается ровно один раз на успешную генерацию. Ошибка сохранения только логируется.
func (t *Tracker) RecordGeneration(ctx context.Context) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.used++
	if t.key == "" {
		return t.used
	}
	if err := t.store.Save(ctx, t.key, strconv.Itoa(t.used)); err != nil && t.logger != nil {
		t.logger.Warnw("Quota save failed", "key", t.key, "used", t.used, "error", err)
	}
	return t.used
}

// IsExhausted true, когда count >= лимита.
func (t *Tracker) IsExhausted(count int) bool { return count >= t.cap }

// Exhausted проверка текущего значения.
func (t *Tracker) Exhausted() bool { return t.IsExhausted(t.Used()) }

func (t *Tracker) Used() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.used
}

func (t *Tracker) Remaining() int {
	return max(0, t.cap-t.Used())
}

func (t *Tracker) Cap() int { return t.cap }

func (t *Tracker) Key() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.key
}
