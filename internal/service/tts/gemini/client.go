package gemini

import (
	gapi "AdStudio/internal/gemini"
	"AdStudio/internal/service/tts"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const DefaultModel = "gemini-2.5-pro-preview-tts"

// Client реализует синтез речи через Gemini generateContent с модальностью AUDIO.
// Ответ base64 сырого PCM s16le 24 кГц моно, отдаём его как есть.
type Client struct {
	api    *gapi.Transport
	model  string
	logger *zap.SugaredLogger
}

func New(api *gapi.Transport, model string, logger *zap.SugaredLogger) *Client {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Client{api: api, model: model, logger: logger}
}

// Synthesize один вызов: соло, voiceConfig, диалог, multiSpeakerVoiceConfig.
func (c *Client) Synthesize(ctx context.Context, req tts.Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", tts.ErrEmptyText
	}
	if len(req.Speakers) == 0 {
		return "", fmt.Errorf("gemini tts: no voice selected")
	}

	body, err := c.api.GenerateContent(ctx, c.model, payload(req))
	if err != nil {
		return "", fmt.Errorf("gemini tts: %w", err)
	}

	data := gapi.InlineData(body)
	if data == "" {
		if reason := gapi.BlockReason(body); reason != "" && c.logger != nil {
			c.logger.Warnw("Gemini TTS prompt blocked", "reason", reason)
		}
		return "", tts.ErrEmptyResponse
	}
	return data, nil
}

func payload(req tts.Request) gapi.GenerateRequest {
	sc := &gapi.SpeechConfig{}
	if req.Dialogue() {
		mc := &gapi.MultiSpeakerVoiceConfig{SpeakerVoiceConfigs: make([]gapi.SpeakerVoiceConfig, 0, len(req.Speakers))}
		for _, s := range req.Speakers {
			mc.SpeakerVoiceConfigs = append(mc.SpeakerVoiceConfigs, gapi.SpeakerVoiceConfig{
				Speaker:     s.Speaker,
				VoiceConfig: gapi.VoiceConfig{PrebuiltVoiceConfig: gapi.PrebuiltVoiceConfig{VoiceName: s.VoiceID}},
			})
		}
		sc.MultiSpeakerVoiceConfig = mc
	} else {
		sc.VoiceConfig = &gapi.VoiceConfig{PrebuiltVoiceConfig: gapi.PrebuiltVoiceConfig{VoiceName: req.Speakers[0].VoiceID}}
	}

	return gapi.GenerateRequest{
		Contents: gapi.UserText(req.Prompt),
		GenerationConfig: &gapi.GenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig:       sc,
		},
	}
}
