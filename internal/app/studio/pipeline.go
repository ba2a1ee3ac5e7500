package studio

import (
	"AdStudio/internal/service/audio"
	"AdStudio/internal/service/tts"
	"AdStudio/internal/service/tts/player"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrTimeout удалённый синтез не уложился в таймаут. Это отказ, а не молчаливое ожидание.
var ErrTimeout = errors.New("studio: speech request timed out")

// ErrSuperseded причина отмены запроса, который заменён более новым или отменён пользователем.
var ErrSuperseded = errors.New("studio: request superseded")

// Pipeline один запрос синтеза: сборка инструкции, удалённый вызов, декодирование PCM, вывод.
type Pipeline struct {
	synth      tts.Synthesizer
	player     player.Player
	sampleRate int
	channels   int
	timeout    time.Duration
	logger     *zap.SugaredLogger
}

func NewPipeline(synth tts.Synthesizer, p player.Player, sampleRate, channels int, timeout time.Duration, logger *zap.SugaredLogger) *Pipeline {
	if sampleRate <= 0 {
		sampleRate = 24000
	}
	if channels <= 0 {
		channels = 1
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Pipeline{synth: synth, player: p, sampleRate: sampleRate, channels: channels, timeout: timeout, logger: logger}
}

// Unlock готовит устройство вывода. Вызывается синхронно в обработчике нажатия, до сетевого запроса.
func (p *Pipeline) Unlock() error {
	return p.player.Unlock(p.sampleRate)
}

// Synthesize Requesting → Decoding. Пустой ответ даёт tts.ErrEmptyResponse.
func (p *Pipeline) Synthesize(ctx context.Context, text string, sel tts.Selection, style string) (*audio.Buffer, error) {
	req, err := tts.BuildRequest(text, sel, style)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeoutCause(ctx, p.timeout, ErrTimeout)
	defer cancel()

	started := time.Now()
	data, err := p.synth.Synthesize(ctx, req)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return nil, fmt.Errorf("%w: %w", cause, err)
		}
		return nil, err
	}
	if strings.TrimSpace(data) == "" {
		return nil, tts.ErrEmptyResponse
	}

	buf, err := audio.Decode(data, p.sampleRate, p.channels)
	if err != nil {
		return nil, err
	}
	if buf.Frames() == 0 {
		return nil, tts.ErrEmptyResponse
	}
	if p.logger != nil {
		p.logger.Infow("Speech decoded", "speakers", len(req.Speakers), "duration", buf.Duration().String(), "took", time.Since(started).String())
	}
	return buf, nil
}

// Play останавливает прежнее воспроизведение и запускает буфер.
func (p *Pipeline) Play(buf *audio.Buffer, onEnd func()) error {
	return p.player.Play(buf, onEnd)
}

func (p *Pipeline) Stop() { p.player.Stop() }
