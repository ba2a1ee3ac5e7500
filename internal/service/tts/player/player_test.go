package player

import (
	"AdStudio/internal/service/audio"
	"errors"
	"testing"
)

// Тесты не трогают реальное устройство вывода: speaker.Init требует звуковую карту.

func TestPlay_RequiresUnlock(t *testing.T) {
	t.Parallel()

	p := New()
	buf, err := audio.FromPCM([]byte{0, 0, 0, 0}, 24000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Play(buf, nil); !errors.Is(err, ErrNotUnlocked) {
		t.Errorf("Play before Unlock: err = %v, want ErrNotUnlocked", err)
	}
}

func TestStop_Idle(t *testing.T) {
	t.Parallel()

	p := NewWithVolume(-6)
	p.Stop()
	p.Stop()
	if p.current != nil {
		t.Error("expected no current playback")
	}
}
