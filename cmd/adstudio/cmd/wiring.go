package cmd

import (
	"AdStudio/internal/ai"
	"AdStudio/internal/app/studio"
	"AdStudio/internal/gemini"
	"AdStudio/internal/service/identity"
	"AdStudio/internal/service/quota"
	"AdStudio/internal/service/script"
	"AdStudio/internal/service/tts"
	gtts "AdStudio/internal/service/tts/gemini"
	"AdStudio/internal/service/tts/google"
	"AdStudio/internal/service/tts/player"
	"strings"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"
)

func newSynthesizer(logger *zap.SugaredLogger) tts.Synthesizer {
	switch strings.ToLower(strings.TrimSpace(cfg.TTSService)) {
	case "google":
		return google.New(cfg.GoogleTTS.Language, cfg.GoogleTTS.VoiceFamily, cfg.Audio.SampleRate, logger)
	default:
		api := gemini.NewTransport(cfg.Gemini.Endpoint, cfg.Gemini.APIKey, logger)
		return gtts.New(api, cfg.Gemini.TTSModel, logger)
	}
}

func newTextClient(logger *zap.SugaredLogger) ai.Client {
	switch strings.ToLower(strings.TrimSpace(cfg.TextService)) {
	case "openai":
		// ключ берётся SDK из OPENAI_API_KEY
		oClient := openai.NewClient()
		return ai.NewTextClient(&oClient, cfg.OpenAI.Model)
	case "stub":
		return ai.NewStubClient()
	default:
		api := gemini.NewTransport(cfg.Gemini.Endpoint, cfg.Gemini.APIKey, logger)
		return ai.NewGeminiTextClient(api, cfg.Gemini.TextModel)
	}
}

func newPipeline(logger *zap.SugaredLogger) *studio.Pipeline {
	p := player.NewWithVolume(cfg.Audio.VolumeDB)
	return studio.NewPipeline(newSynthesizer(logger), p, cfg.Audio.SampleRate, cfg.Audio.Channels, cfg.RequestTimeout, logger)
}

func newResolver(logger *zap.SugaredLogger) *identity.Resolver {
	return identity.New(cfg.Identity.LookupURL, cfg.Identity.LookupTimeout, cfg.Quota.KeyPrefix, cfg.Identity.Fallback, logger)
}

// openQuota открывает хранилище; вызывающий закрывает его через возвращённый Store.
func openQuota(logger *zap.SugaredLogger) (*quota.Tracker, quota.Store, error) {
	store, err := quota.Open(cfg.Quota.Store, cfg.Quota.Path)
	if err != nil {
		return nil, nil, err
	}
	return quota.NewTracker(store, cfg.Quota.Cap, logger), store, nil
}

func newStudio(tracker *quota.Tracker, logger *zap.SugaredLogger) *studio.Studio {
	return studio.New(studio.Deps{
		Pipeline:       newPipeline(logger),
		Text:           newTextClient(logger),
		Tracker:        tracker,
		Resolver:       newResolver(logger),
		Style:          script.DynamicRadioPersona,
		RequestTimeout: cfg.RequestTimeout,
		ExportDir:      cfg.ExportDir,
	}, logger)
}
