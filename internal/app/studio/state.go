package studio

import (
	"AdStudio/internal/catalog"
	"AdStudio/internal/service/audio"
	"AdStudio/internal/service/script"
	"AdStudio/internal/service/tts"
	"fmt"
)

// Сообщения для пользователя. UI студии франкоязычный.
const (
	MsgStudioError = "Erreur studio. Vérifiez votre connexion."
	MsgScriptError = "Erreur de script."
)

// MsgQuotaExhausted сообщение о исчерпанной квоте.
func MsgQuotaExhausted(limit int) string {
	return fmt.Sprintf("Quota épuisé (%d/%d). Contactez le studio.", limit, limit)
}

type Mode int

const (
	ModeSolo Mode = iota
	ModeDialogue
)

func (m Mode) String() string {
	if m == ModeDialogue {
		return "dialogue"
	}
	return "solo"
}

// Slot какой выбор голоса меняется.
type Slot int

const (
	SlotSolo Slot = iota
	SlotA
	SlotB
)

// Phase стадия конвейера речи, выводится из State.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRequesting
	PhasePlaying
)

func (p Phase) String() string {
	switch p {
	case PhaseRequesting:
		return "requesting"
	case PhasePlaying:
		return "playing"
	default:
		return "idle"
	}
}

// State состояние студии. Принадлежит UI и меняется только через Reduce.
type State struct {
	Script    string
	Mode      Mode
	SoloVoice string
	VoiceA    string
	VoiceB    string

	Playing    bool
	Generating bool
	Rewriting  bool
	Resolving  bool // идёт определение IP, запуск синтеза недоступен

	// Generation номер актуального запроса синтеза. Результаты с другим номером отбрасываются.
	Generation int64

	Used     int
	Cap      int
	Identity string

	LastError string
}

// NewState начальное состояние: шаблон соло, голоса по умолчанию из каталога.
func NewState(limit int) State {
	cat := catalog.Default()
	a, b := "Orus", "Kore"
	if v, ok := cat.FirstByGender(catalog.Male); ok {
		a = v.ID
	}
	if v, ok := cat.FirstByGender(catalog.Female); ok {
		b = v.ID
	}
	return State{
		Script:    script.SoloTemplate,
		Mode:      ModeSolo,
		SoloVoice: "Orus",
		VoiceA:    a,
		VoiceB:    b,
		Resolving: true,
		Cap:       limit,
	}
}

func (s State) Phase() Phase {
	switch {
	case s.Generating:
		return PhaseRequesting
	case s.Playing:
		return PhasePlaying
	default:
		return PhaseIdle
	}
}

// Exhausted квота исчерпана: used >= cap.
func (s State) Exhausted() bool { return s.Used >= s.Cap }

// SpeakerNames отображаемые имена ролей диалога.
func (s State) SpeakerNames() (string, string) {
	cat := catalog.Default()
	return cat.DisplayName(s.VoiceA, "Voix 1"), cat.DisplayName(s.VoiceB, "Voix 2")
}

// Selection привязки голосов для текущего режима.
func (s State) Selection() tts.Selection {
	cat := catalog.Default()
	if s.Mode == ModeDialogue {
		a, b := s.SpeakerNames()
		return tts.Selection{
			First:  tts.SpeakerBinding{Speaker: a, VoiceID: s.VoiceA},
			Second: &tts.SpeakerBinding{Speaker: b, VoiceID: s.VoiceB},
		}
	}
	return tts.Selection{First: tts.SpeakerBinding{Speaker: cat.DisplayName(s.SoloVoice, "Speaker"), VoiceID: s.SoloVoice}}
}

// Event входное событие редьюсера: действие пользователя или завершение асинхронной операции.
type Event interface{ event() }

type (
	IdentityResolved struct {
		IP   string
		Used int
	}
	ScriptEdited  struct{ Text string }
	ModeSwitched  struct{ Dialogue bool }
	VoiceSelected struct {
		Slot    Slot
		VoiceID string
	}
	PlayPressed  struct{}
	StopPressed  struct{}
	UnlockFailed struct{ Err error }
	SpeechReady  struct {
		Gen    int64
		Buffer *audio.Buffer
	}
	SpeechFailed struct {
		Gen int64
		Err error
	}
	PlaybackEnded  struct{ Gen int64 }
	PlaybackFailed struct {
		Gen int64
		Err error
	}
	RewritePressed struct{}
	RewriteDone    struct{ Text string }
	RewriteFailed  struct{ Err error }
	ErrorDismissed struct{}
)

func (IdentityResolved) event() {}
func (ScriptEdited) event()     {}
func (ModeSwitched) event()     {}
func (VoiceSelected) event()    {}
func (PlayPressed) event()      {}
func (StopPressed) event()      {}
func (UnlockFailed) event()     {}
func (SpeechReady) event()      {}
func (SpeechFailed) event()     {}
func (PlaybackEnded) event()    {}
func (PlaybackFailed) event()   {}
func (RewritePressed) event()   {}
func (RewriteDone) event()      {}
func (RewriteFailed) event()    {}
func (ErrorDismissed) event()   {}

// Effect побочное действие, которое выполняет драйвер после Reduce.
type Effect interface{ effect() }

type (
	// Synthesize запустить запрос синтеза с номером Gen.
	Synthesize struct {
		Gen       int64
		Script    string
		Selection tts.Selection
	}
	// Play начать воспроизведение результата запроса Gen.
	Play struct {
		Gen    int64
		Buffer *audio.Buffer
	}
	Stop struct{}
	// Cancel отменить запрос Gen, если он ещё выполняется.
	Cancel struct{ Gen int64 }
	// Rewrite переписать сценарий текстовой моделью.
	Rewrite struct {
		Text     string
		Dialogue bool
		SpeakerA string
		SpeakerB string
	}
	// RecordGeneration учесть успешную генерацию в квоте.
	RecordGeneration struct{}
)

func (Synthesize) effect()       {}
func (Play) effect()             {}
func (Stop) effect()             {}
func (Cancel) effect()           {}
func (Rewrite) effect()          {}
func (RecordGeneration) effect() {}
