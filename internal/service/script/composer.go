package script

import (
	"AdStudio/internal/ai"
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrRewrite оборачивает любую ошибку удалённой генерации текста.
var ErrRewrite = errors.New("script: rewrite failed")

// Rewrite просит текстовую модель переписать сценарий по шаблону режима.
// При ошибке исходный текст не возвращается: вызывающий оставляет свой текст как есть.
// Непустой style добавляется к промпту как режиссёрская справка.
func Rewrite(ctx context.Context, client ai.Client, text string, dialogue bool, speakerA, speakerB, style string) (string, error) {
	if client == nil {
		return "", fmt.Errorf("%w: no text client configured", ErrRewrite)
	}
	prompt := soloPrompt(text)
	if dialogue {
		prompt = dialoguePrompt(text, orDefault(speakerA, "Voix 1"), orDefault(speakerB, "Voix 2"))
	}
	if s := strings.TrimSpace(style); s != "" {
		prompt += "\n\nDIRECTION DE LECTURE (pour information) :\n" + s
	}

	out, err := client.SendRequest(ctx, prompt)
	if err != nil {
		return "", errors.Join(ErrRewrite, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return text, nil
	}
	return out, nil
}

// SwitchText текст редактора после смены режима.
// Пользовательский текст сохраняется, шаблоны и пустой текст заменяются.
func SwitchText(current string, toDialogue bool, speakerA, speakerB string) string {
	duo := DialogueTemplate(orDefault(speakerA, DefaultSpeakerA), orDefault(speakerB, DefaultSpeakerB))
	blank := strings.TrimSpace(current) == ""

	if toDialogue {
		if current == SoloTemplate || blank {
			return duo
		}
		return current
	}
	if current == duo || blank || strings.ContainsAny(current, ":[") {
		return SoloTemplate
	}
	return current
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
