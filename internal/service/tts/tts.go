package tts

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrEmptyResponse удалённый сервис ответил без аудио.
	ErrEmptyResponse = errors.New("tts: no audio data in response")
	// ErrSpeakersNotDistinct в диалоге имена говорящих совпадают, сервис не сможет развести голоса.
	ErrSpeakersNotDistinct = errors.New("tts: dialogue speakers must have distinct names")
	// ErrDialogueUnsupported провайдер умеет только один голос.
	ErrDialogueUnsupported = errors.New("tts: dialogue mode is not supported by this provider")
	ErrEmptyText           = errors.New("tts: empty input text")
)

// DialoguePreamble вступление для двухголосого режима: сервис должен переключать голос по имени.
const DialoguePreamble = "Ceci est une conversation audio réelle en FRANÇAIS (FRANCE). Respecte scrupuleusement les noms des locuteurs pour changer de voix.\n\nCONVERSATION:\n"

// Synthesizer абстракция TTS. Возвращает base64 сырого PCM s16le (24 кГц, моно у Gemini).
// Разбор и воспроизведение, забота вызывающего.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (string, error)
}

// SpeakerBinding привязка роли диалога к голосу на один запрос.
type SpeakerBinding struct {
	Speaker string // Имя говорящего в тексте сценария
	VoiceID string // Техническое имя голоса
}

// Request итоговый запрос к провайдеру.
type Request struct {
	Prompt   string // Полная инструкция: стиль, вступление, текст
	Text     string // Только текст сценария, для провайдеров без поддержки стиля
	Speakers []SpeakerBinding
}

// Dialogue true, если привязок больше одной.
func (r Request) Dialogue() bool { return len(r.Speakers) > 1 }

// Selection выбор голосов из UI: Second == nil, соло.
type Selection struct {
	First  SpeakerBinding
	Second *SpeakerBinding
}

// BuildRequest собирает единую инструкцию: стиль, вступление для диалога и сам текст.
func BuildRequest(script string, sel Selection, style string) (Request, error) {
	if strings.TrimSpace(script) == "" {
		return Request{}, ErrEmptyText
	}

	speakers := []SpeakerBinding{sel.First}
	body := script
	if sel.Second != nil {
		if strings.TrimSpace(sel.First.Speaker) == strings.TrimSpace(sel.Second.Speaker) {
			return Request{}, ErrSpeakersNotDistinct
		}
		speakers = append(speakers, *sel.Second)
		body = DialoguePreamble + script
	}

	prompt := body
	if s := strings.TrimSpace(style); s != "" {
		prompt = s + "\n\n" + body
	}
	return Request{Prompt: prompt, Text: script, Speakers: speakers}, nil
}
