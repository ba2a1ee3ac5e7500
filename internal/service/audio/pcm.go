package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// Масштаб нормализации s16 → [-1.0, 1.0). Формат ответа Gemini фиксирован, менять нельзя.
const pcmScale = 32768.0

var (
	ErrInvalidEncoding = errors.New("audio: invalid base64 payload")
	ErrInvalidFormat   = errors.New("audio: invalid pcm format")
)

// Buffer декодированный PCM, готовый к воспроизведению, вместе с исходными байтами.
type Buffer struct {
	SampleRate int
	Channels   [][]float64 // по каналу на срез, значения в [-1.0, 1.0)
	Raw        []byte      // исходный s16le после base64
}

// Decode разбирает base64 сырого PCM s16le с чередованием каналов.
// Хвостовой нечётный байт и неполный последний кадр отбрасываются.
func Decode(encoded string, sampleRate, channels int) (*Buffer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: rate=%d channels=%d", ErrInvalidFormat, sampleRate, channels)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return FromPCM(raw, sampleRate, channels)
}

// FromPCM то же, что Decode, но для уже раскодированных байт.
func FromPCM(raw []byte, sampleRate, channels int) (*Buffer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: rate=%d channels=%d", ErrInvalidFormat, sampleRate, channels)
	}
	samples := len(raw) / 2
	frames := samples / channels

	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * 2
			s := int16(binary.LittleEndian.Uint16(raw[off:]))
			out[ch][i] = float64(s) / pcmScale
		}
	}
	return &Buffer{SampleRate: sampleRate, Channels: out, Raw: raw}, nil
}

// Frames количество кадров (сэмплов на канал).
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Format формат для beep: всегда стерео на выходе, 16 бит.
func (b *Buffer) Format() beep.Format {
	return beep.Format{SampleRate: beep.SampleRate(b.SampleRate), NumChannels: 2, Precision: 2}
}

// Streamer новый независимый поток по буферу. Моно дублируется в оба канала.
func (b *Buffer) Streamer() beep.StreamSeeker {
	return &streamer{buf: b}
}

// WriteWAV сохраняет буфер как WAV 16 бит.
func (b *Buffer) WriteWAV(w io.WriteSeeker) error {
	if b.Frames() == 0 {
		return errors.New("audio: empty buffer")
	}
	f := b.Format()
	if len(b.Channels) == 1 {
		f.NumChannels = 1
	}
	if err := wav.Encode(w, b.Streamer(), f); err != nil {
		return fmt.Errorf("audio: encode wav: %w", err)
	}
	return nil
}

type streamer struct {
	buf *Buffer
	pos int
}

func (s *streamer) Stream(samples [][2]float64) (int, bool) {
	total := s.buf.Frames()
	if s.pos >= total {
		return 0, false
	}
	left := s.buf.Channels[0]
	right := left
	if len(s.buf.Channels) > 1 {
		right = s.buf.Channels[1]
	}
	n := 0
	for n < len(samples) && s.pos < total {
		samples[n][0] = left[s.pos]
		samples[n][1] = right[s.pos]
		s.pos++
		n++
	}
	return n, true
}

func (s *streamer) Err() error { return nil }

func (s *streamer) Len() int { return s.buf.Frames() }

func (s *streamer) Position() int { return s.pos }

func (s *streamer) Seek(p int) error {
	if p < 0 || p > s.buf.Frames() {
		return fmt.Errorf("audio: seek %d out of range [0, %d]", p, s.buf.Frames())
	}
	s.pos = p
	return nil
}
