package studio

import (
	"AdStudio/internal/ai"
	"AdStudio/internal/service/audio"
	"AdStudio/internal/service/identity"
	"AdStudio/internal/service/quota"
	"AdStudio/internal/service/script"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNothingToExport ещё не было ни одной успешной генерации.
var ErrNothingToExport = errors.New("studio: no generated audio to export")

// Deps зависимости студии.
type Deps struct {
	Pipeline *Pipeline
	Text     ai.Client
	Tracker  *quota.Tracker
	Resolver *identity.Resolver

	Style          string        // режиссёрская инструкция для синтеза
	RequestTimeout time.Duration // таймаут переписывания текста
	ExportDir      string
}

// Studio драйвер: сериализует события, применяет Reduce и исполняет эффекты.
type Studio struct {
	deps   Deps
	logger *zap.SugaredLogger

	base     context.Context
	stopBase context.CancelFunc
	wg       sync.WaitGroup

	mu         sync.Mutex
	state      State
	cancelPrev context.CancelCauseFunc
	cancelGen  int64
	last       *audio.Buffer
	closed     bool

	notify chan struct{}
}

func New(deps Deps, logger *zap.SugaredLogger) *Studio {
	limit := quota.DefaultCap
	if deps.Tracker != nil {
		limit = deps.Tracker.Cap()
	}
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = 90 * time.Second
	}
	base, stop := context.WithCancel(context.Background())
	return &Studio{
		deps:     deps,
		logger:   logger,
		base:     base,
		stopBase: stop,
		state:    NewState(limit),
		notify:   make(chan struct{}, 1),
	}
}

// Start запускает определение IP и загрузку квоты. До завершения синтез недоступен.
func (s *Studio) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		id := s.deps.Resolver.Resolve(ctx)
		used := s.deps.Tracker.Load(ctx, id.Key)
		if s.logger != nil {
			s.logger.Infow("Quota loaded", "identity", id.IP, "fallback", id.Fallback, "used", used)
		}
		s.Dispatch(IdentityResolved{IP: id.IP, Used: used})
	}()
}

// State снимок текущего состояния.
func (s *Studio) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Updates сигнал об изменении состояния. Несколько изменений могут слиться в один сигнал.
func (s *Studio) Updates() <-chan struct{} { return s.notify }

// Dispatch применяет событие. Безопасен для вызова из любой горутины.
func (s *Studio) Dispatch(ev Event) {
	if _, ok := ev.(PlayPressed); ok {
		// Устройство вывода готовим в том же действии пользователя, до любого сетевого запроса
		if err := s.deps.Pipeline.Unlock(); err != nil {
			if s.logger != nil {
				s.logger.Errorw("Audio output unlock failed", "error", err)
			}
			ev = UnlockFailed{Err: err}
		}
	}

	s.mu.Lock()
	next, effects := Reduce(s.state, ev)
	s.state = next
	for _, eff := range effects {
		s.apply(eff)
	}
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// apply выполняется под s.mu. Долгие операции уходят в горутины и возвращаются событиями.
func (s *Studio) apply(eff Effect) {
	if s.closed {
		return
	}
	switch e := eff.(type) {
	case Synthesize:
		s.cancelLocked()
		ctx, cancel := context.WithCancelCause(s.base)
		s.cancelPrev = cancel
		s.cancelGen = e.Gen
		s.wg.Add(1)
		go s.synthesize(ctx, e)

	case Cancel:
		if s.cancelGen == e.Gen {
			s.cancelLocked()
		}

	case Play:
		s.last = e.Buffer
		gen := e.Gen
		if err := s.deps.Pipeline.Play(e.Buffer, func() { s.Dispatch(PlaybackEnded{Gen: gen}) }); err != nil {
			if s.logger != nil {
				s.logger.Errorw("Playback failed", "gen", gen, "error", err)
			}
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.Dispatch(PlaybackFailed{Gen: gen, Err: err})
			}()
		}

	case Stop:
		s.deps.Pipeline.Stop()

	case RecordGeneration:
		used := s.deps.Tracker.RecordGeneration(s.base)
		if s.logger != nil {
			s.logger.Infow("Generation recorded", "used", used, "cap", s.deps.Tracker.Cap())
		}

	case Rewrite:
		s.wg.Add(1)
		go s.rewrite(e)
	}
}

func (s *Studio) cancelLocked() {
	if s.cancelPrev != nil {
		s.cancelPrev(ErrSuperseded)
		s.cancelPrev = nil
	}
}

func (s *Studio) synthesize(ctx context.Context, e Synthesize) {
	defer s.wg.Done()
	reqID := uuid.NewString()
	if s.logger != nil {
		s.logger.Infow("Speech request", "id", reqID, "gen", e.Gen, "dialogue", e.Selection.Second != nil, "chars", len([]rune(e.Script)))
	}

	buf, err := s.deps.Pipeline.Synthesize(ctx, e.Script, e.Selection, s.deps.Style)

	s.mu.Lock()
	if s.cancelGen == e.Gen && s.cancelPrev != nil {
		s.cancelPrev(nil)
		s.cancelPrev = nil
	}
	s.mu.Unlock()

	if err != nil {
		if s.logger != nil {
			if errors.Is(err, ErrSuperseded) {
				s.logger.Infow("Speech request superseded", "id", reqID, "gen", e.Gen)
			} else {
				s.logger.Errorw("Speech request failed", "id", reqID, "gen", e.Gen, "error", err)
			}
		}
		s.Dispatch(SpeechFailed{Gen: e.Gen, Err: err})
		return
	}
	s.Dispatch(SpeechReady{Gen: e.Gen, Buffer: buf})
}

func (s *Studio) rewrite(e Rewrite) {
	defer s.wg.Done()
	ctx, cancel := context.WithTimeoutCause(s.base, s.deps.RequestTimeout, errors.New("rewrite timeout"))
	defer cancel()

	out, err := script.Rewrite(ctx, s.deps.Text, e.Text, e.Dialogue, e.SpeakerA, e.SpeakerB, s.deps.Style)
	if err != nil {
		if s.logger != nil {
			s.logger.Errorw("Rewrite failed", "error", err)
		}
		s.Dispatch(RewriteFailed{Err: err})
		return
	}
	s.Dispatch(RewriteDone{Text: out})
}

// Export сохраняет последний сгенерированный звук в WAV и возвращает путь к файлу.
func (s *Studio) Export() (string, error) {
	s.mu.Lock()
	buf := s.last
	s.mu.Unlock()
	if buf == nil {
		return "", ErrNothingToExport
	}

	dir := s.deps.ExportDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("studio: export dir: %w", err)
	}
	name := fmt.Sprintf("adstudio-%s-%s.wav", time.Now().Format("20060102-150405"), uuid.NewString()[:8])
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("studio: export: %w", err)
	}
	if err := buf.WriteWAV(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("studio: export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("studio: export: %w", err)
	}
	if s.logger != nil {
		s.logger.Infow("Audio exported", "path", path, "duration", buf.Duration().String())
	}
	return path, nil
}

// Close отменяет запросы, останавливает звук и ждёт фоновые горутины.
func (s *Studio) Close() {
	s.mu.Lock()
	s.closed = true
	s.cancelLocked()
	s.mu.Unlock()
	s.stopBase()
	s.deps.Pipeline.Stop()
	s.wg.Wait()
}
