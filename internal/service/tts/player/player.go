package player

import (
	"AdStudio/internal/service/audio"
	"errors"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

var ErrNotUnlocked = errors.New("player: output device is not initialised; call Unlock first")

// Player единственный на процесс вывод звука. Одновременно играет не больше одного буфера.
type Player interface {
	// Unlock инициализирует устройство вывода. Вызывать синхронно в обработчике действия
	// пользователя, до любого сетевого запроса.
	Unlock(sampleRate int) error
	// Play останавливает текущее воспроизведение и запускает новое, не блокируя.
	// onEnd вызывается только при естественном окончании.
	Play(buf *audio.Buffer, onEnd func()) error
	Stop()
}

// Default реализует Player поверх beep/speaker.
type Default struct {
	volumeDB float64

	mu         sync.Mutex
	sampleRate int
	current    *beep.Ctrl
}

// New создаёт плеер без изменения громкости (0 dB).
func New() *Default { return &Default{volumeDB: 0} }

// NewWithVolume создаёт плеер с предустановленной громкостью в dB (отрицательные, тише).
func NewWithVolume(db float64) *Default { return &Default{volumeDB: db} }

func (d *Default) Unlock(sampleRate int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sampleRate == sampleRate {
		return nil
	}
	// Повторная инициализация закрывает прежнее устройство, поэтому делаем её только при смене частоты.
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return err
	}
	d.sampleRate = sampleRate
	return nil
}

func (d *Default) Play(buf *audio.Buffer, onEnd func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sampleRate == 0 {
		return ErrNotUnlocked
	}
	d.stopLocked()

	var s beep.Streamer = buf.Streamer()
	if buf.SampleRate != d.sampleRate {
		s = beep.Resample(4, beep.SampleRate(buf.SampleRate), beep.SampleRate(d.sampleRate), s)
	}
	vol := &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   d.volumeDB,
		Silent:   false,
	}
	ctrl := &beep.Ctrl{Streamer: vol}
	d.current = ctrl

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		// Callback выполняется под блокировкой speaker, уходим в горутину.
		go d.finished(ctrl, onEnd)
	})))
	return nil
}

func (d *Default) finished(ctrl *beep.Ctrl, onEnd func()) {
	d.mu.Lock()
	natural := d.current == ctrl
	if natural {
		d.current = nil
	}
	d.mu.Unlock()
	if natural && onEnd != nil {
		onEnd()
	}
}

func (d *Default) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Default) stopLocked() {
	if d.current == nil {
		return
	}
	if d.sampleRate != 0 {
		speaker.Clear()
	}
	d.current = nil
}
