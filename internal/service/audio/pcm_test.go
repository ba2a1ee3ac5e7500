package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep/wav"
)

func pcm(values ...int16) []byte {
	b := make([]byte, len(values)*2)
	for i, v := range values {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(v))
	}
	return b
}

func encode(values ...int16) string {
	return base64.StdEncoding.EncodeToString(pcm(values...))
}

func TestDecode_FullScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value int16
		want  float64
	}{
		{"max positive", 32767, 32767.0 / 32768.0},
		{"max negative", -32768, -1.0},
		{"zero", 0, 0.0},
		{"mid positive", 16384, 0.5},
		{"mid negative", -16384, -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := Decode(encode(tt.value), 24000, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := buf.Channels[0][0]; got != tt.want {
				t.Errorf("Decode(%d) = %v; want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestDecode_EveryInt16InRange(t *testing.T) {
	t.Parallel()

	values := make([]int16, 0, 1<<16)
	for v := math.MinInt16; v <= math.MaxInt16; v++ {
		values = append(values, int16(v))
	}
	buf, err := FromPCM(pcm(values...), 24000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, got := range buf.Channels[0] {
		want := float64(values[i]) / 32768.0
		if got != want {
			t.Fatalf("sample %d: got %v, want %v", values[i], got, want)
		}
		if got < -1.0 || got >= 1.0 {
			t.Fatalf("sample %d: %v outside [-1, 1)", values[i], got)
		}
	}
}

func TestDecode_Deinterleave(t *testing.T) {
	t.Parallel()

	// L R L R L (последний неполный кадр отбрасывается)
	buf, err := Decode(encode(1000, -1000, 2000, -2000, 3000), 48000, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Frames() != 2 {
		t.Fatalf("Frames() = %d, want 2", buf.Frames())
	}
	wantL := []float64{1000.0 / 32768.0, 2000.0 / 32768.0}
	wantR := []float64{-1000.0 / 32768.0, -2000.0 / 32768.0}
	for i := range wantL {
		if buf.Channels[0][i] != wantL[i] || buf.Channels[1][i] != wantR[i] {
			t.Errorf("frame %d = (%v, %v), want (%v, %v)", i, buf.Channels[0][i], buf.Channels[1][i], wantL[i], wantR[i])
		}
	}
}

func TestDecode_OddTrailingByte(t *testing.T) {
	t.Parallel()

	raw := append(pcm(100, 200), 0x7f)
	buf, err := Decode(base64.StdEncoding.EncodeToString(raw), 24000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", buf.Frames())
	}
	if len(buf.Raw) != 5 {
		t.Errorf("len(Raw) = %d, want 5", len(buf.Raw))
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Decode("@@not base64@@", 24000, 1); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("bad base64: err = %v, want ErrInvalidEncoding", err)
	}
	if _, err := Decode(encode(1), 0, 1); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("zero rate: err = %v, want ErrInvalidFormat", err)
	}
	if _, err := Decode(encode(1), 24000, 0); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("zero channels: err = %v, want ErrInvalidFormat", err)
	}
}

func TestBuffer_Duration(t *testing.T) {
	t.Parallel()

	buf, err := FromPCM(make([]byte, 24000*2), 24000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Duration() != time.Second {
		t.Errorf("Duration() = %v, want 1s", buf.Duration())
	}
}

func TestStreamer_MonoDuplicated(t *testing.T) {
	t.Parallel()

	buf, _ := FromPCM(pcm(16384, -16384, 0), 24000, 1)
	s := buf.Streamer()
	samples := make([][2]float64, 2)

	n, ok := s.Stream(samples)
	if !ok || n != 2 {
		t.Fatalf("Stream = (%d, %v), want (2, true)", n, ok)
	}
	if samples[0] != [2]float64{0.5, 0.5} || samples[1] != [2]float64{-0.5, -0.5} {
		t.Errorf("samples = %v", samples)
	}
	n, ok = s.Stream(samples)
	if !ok || n != 1 {
		t.Fatalf("second Stream = (%d, %v), want (1, true)", n, ok)
	}
	if _, ok := s.Stream(samples); ok {
		t.Error("expected drained streamer to report !ok")
	}
	if err := s.Seek(0); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if s.Position() != 0 || s.Len() != 3 {
		t.Errorf("Position=%d Len=%d", s.Position(), s.Len())
	}
	if err := s.Seek(4); err == nil {
		t.Error("expected out of range seek to fail")
	}
}

func TestWriteWAV(t *testing.T) {
	t.Parallel()

	buf, _ := FromPCM(pcm(0, 1000, -1000, 32767), 24000, 1)
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := buf.WriteWAV(f); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()
	s, format, err := wav.Decode(r)
	if err != nil {
		t.Fatalf("wav.Decode: %v", err)
	}
	defer s.Close()
	if int(format.SampleRate) != 24000 || format.NumChannels != 1 {
		t.Errorf("format = %+v, want 24000 Hz mono", format)
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
}

func TestWriteWAV_Empty(t *testing.T) {
	t.Parallel()

	buf := &Buffer{SampleRate: 24000, Channels: [][]float64{{}}}
	f, err := os.Create(filepath.Join(t.TempDir(), "empty.wav"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := buf.WriteWAV(f); err == nil {
		t.Error("expected error for empty buffer")
	}
}
