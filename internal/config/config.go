package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DebugMode bool   `env:"DEBUG_MODE"` //Режим дебага
	LogFile   string `env:"LOG_FILE"`   // Файл логов для TUI; пусто, stderr

	// Выбор провайдеров
	TTSService  string `env:"TTS_SERVICE"`  // gemini|google, по умолчанию gemini
	TextService string `env:"TEXT_SERVICE"` // gemini|openai|stub, по умолчанию gemini

	Gemini    GeminiConfig
	GoogleTTS GoogleTTSConfig
	OpenAI    OpenAIConfig
	Audio     AudioConfig
	Identity  IdentityConfig
	Quota     QuotaConfig

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"` // Таймаут одного удалённого вызова (синтез/переписывание)
	ExportDir      string        `env:"EXPORT_DIR"`      // Куда сохранять WAV
}

// GeminiConfig параметры Gemini API (generateContent).
type GeminiConfig struct {
	APIKey    string `env:"GEMINI_API_KEY"` // Если пусто, используем ADC (GOOGLE_APPLICATION_CREDENTIALS)
	Endpoint  string `env:"GEMINI_ENDPOINT"`
	TTSModel  string `env:"GEMINI_TTS_MODEL"`
	TextModel string `env:"GEMINI_TEXT_MODEL"`
}

// GoogleTTSConfig конфигурация для синтеза речи через Google Cloud Text-to-Speech.
type GoogleTTSConfig struct {
	// Путь к файлу ключа сервисного аккаунта. Фактически читается из ENV GOOGLE_APPLICATION_CREDENTIALS.
	CredentialsPath string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	Language        string `env:"GOOGLE_TTS_LANGUAGE"`
	// Семейство голосов; имя голоса = <язык>-<семейство>-<ID из каталога>
	VoiceFamily string `env:"GOOGLE_TTS_VOICE_FAMILY"`
}

// OpenAIConfig используется только при TEXT_SERVICE=openai. Ключ читается SDK из OPENAI_API_KEY.
type OpenAIConfig struct {
	Model string `env:"OPENAI_MODEL"`
}

// AudioConfig формат PCM, который возвращает удалённый синтез, и громкость вывода.
type AudioConfig struct {
	SampleRate int     `env:"SAMPLE_RATE"`
	Channels   int     `env:"CHANNELS"`
	VolumeDB   float64 `env:"PLAYER_VOLUME_DB"` // 0 без изменений, отрицательные, тише
}

// IdentityConfig определение IP пользователя.
type IdentityConfig struct {
	LookupURL     string        `env:"IP_LOOKUP_URL"`
	LookupTimeout time.Duration `env:"IP_LOOKUP_TIMEOUT"`
	Fallback      string        `env:"FALLBACK_IDENTITY"`
}

// QuotaConfig хранилище и лимит генераций.
type QuotaConfig struct {
	Store     string `env:"QUOTA_STORE"` // file|sqlite
	Path      string `env:"QUOTA_PATH"`  // Пусто: путь по умолчанию для типа хранилища
	Cap       int    `env:"QUOTA_CAP"`
	KeyPrefix string `env:"QUOTA_KEY_PREFIX"`
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		DebugMode:   false,
		LogFile:     "adstudio.log",
		TTSService:  "gemini",
		TextService: "gemini",
		Gemini: GeminiConfig{
			Endpoint:  "https://generativelanguage.googleapis.com/v1beta",
			TTSModel:  "gemini-2.5-pro-preview-tts",
			TextModel: "gemini-3-flash-preview",
		},
		GoogleTTS: GoogleTTSConfig{
			CredentialsPath: "service-account.json",
			Language:        "fr-FR",
			VoiceFamily:     "Chirp3-HD",
		},
		OpenAI: OpenAIConfig{Model: "gpt-4o"},
		Audio: AudioConfig{
			SampleRate: 24000, // формат ответа Gemini TTS: 24 кГц, моно, s16le
			Channels:   1,
			VolumeDB:   0,
		},
		Identity: IdentityConfig{
			LookupURL:     "https://api.ipify.org?format=json",
			LookupTimeout: 5 * time.Second,
			Fallback:      "local_studio",
		},
		Quota: QuotaConfig{
			Store:     "file",
			Cap:       10,
			KeyPrefix: "adeasy_quota_",
		},
		RequestTimeout: 90 * time.Second,
		ExportDir:      "exports",
	}
}

// Load загружает конфигурацию: дефолты, затем .env, затем окружение.
// Флаги CLI накладываются поверх вызывающим кодом.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	// Совместимость с веб-версией, где ключ лежал в API_KEY
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = strings.TrimSpace(os.Getenv("API_KEY"))
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек после применения флагов.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(strings.TrimSpace(c.TTSService)) {
	case "gemini", "google":
	default:
		errs = append(errs, fmt.Errorf("unknown tts service %q (want gemini|google)", c.TTSService))
	}
	switch strings.ToLower(strings.TrimSpace(c.TextService)) {
	case "gemini", "openai", "stub":
	default:
		errs = append(errs, fmt.Errorf("unknown text service %q (want gemini|openai|stub)", c.TextService))
	}
	switch strings.ToLower(strings.TrimSpace(c.Quota.Store)) {
	case "file", "sqlite", "sqlite3":
	default:
		errs = append(errs, fmt.Errorf("unknown quota store %q (want file|sqlite)", c.Quota.Store))
	}
	if c.Audio.SampleRate <= 0 {
		errs = append(errs, errors.New("sample rate must be positive"))
	}
	if c.Audio.Channels <= 0 {
		errs = append(errs, errors.New("channels must be positive"))
	}
	if c.Quota.Cap <= 0 {
		errs = append(errs, errors.New("quota cap must be positive"))
	}
	if strings.TrimSpace(c.Identity.Fallback) == "" {
		errs = append(errs, errors.New("fallback identity must not be empty"))
	}

	// Для Cloud TTS нужен файл ключа сервисного аккаунта (ADC).
	// Если ENV пуст, но в конфиге указан путь, устанавливаем ENV.
	if strings.EqualFold(c.TTSService, "google") {
		cred := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		if cred == "" {
			if cp := strings.TrimSpace(c.GoogleTTS.CredentialsPath); cp != "" {
				_ = os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", cp)
				cred = cp
			}
		}
		if cred == "" {
			errs = append(errs, errors.New("google tts: GOOGLE_APPLICATION_CREDENTIALS is not set"))
		} else if _, err := os.Stat(cred); err != nil {
			errs = append(errs, fmt.Errorf("google tts: credentials file not found: %s", cred))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
