package cmd

import (
	"AdStudio/internal/config"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg *config.Config

	flagDebug      bool
	flagTTS        string
	flagText       string
	flagQuotaStore string
	flagQuotaPath  string
	flagExportDir  string
	flagLogFile    string
	flagTimeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "adstudio",
	Short: "AdEasy voice studio: publicités radio en voix de synthèse",
	Long: `adstudio écrit et fait lire des spots publicitaires par des voix Gemini.

Modes:
  solo     - une voix lit le texte
  dialogue - deux voix se répondent (Nom: [émotion] réplique)

Chaque génération réussie consomme une unité du quota journalier (10 par défaut).`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError("adstudio", err)
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagDebug, "debug", false, "Режим отладки (подробные логи)")
	pf.StringVar(&flagTTS, "tts", "", "Сервис синтеза: gemini|google")
	pf.StringVar(&flagText, "text-service", "", "Сервис переписывания: gemini|openai|stub")
	pf.StringVar(&flagQuotaStore, "quota-store", "", "Хранилище квоты: file|sqlite")
	pf.StringVar(&flagQuotaPath, "quota-path", "", "Путь к файлу квоты")
	pf.StringVar(&flagExportDir, "export-dir", "", "Каталог для WAV")
	pf.StringVar(&flagLogFile, "log-file", "", "Файл логов интерфейса")
	pf.DurationVar(&flagTimeout, "timeout", 0, "Таймаут удалённого запроса")
}

// loadConfig дефолты → .env → окружение → флаги. Флаги применяются, только если заданы явно.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	pf := cmd.Flags()
	if pf.Changed("debug") {
		c.DebugMode = flagDebug
	}
	if pf.Changed("tts") {
		c.TTSService = flagTTS
	}
	if pf.Changed("text-service") {
		c.TextService = flagText
	}
	if pf.Changed("quota-store") {
		c.Quota.Store = flagQuotaStore
	}
	if pf.Changed("quota-path") {
		c.Quota.Path = flagQuotaPath
	}
	if pf.Changed("export-dir") {
		c.ExportDir = flagExportDir
	}
	if pf.Changed("log-file") {
		c.LogFile = flagLogFile
	}
	if pf.Changed("timeout") {
		c.RequestTimeout = flagTimeout
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

// newLogger консольный логгер для команд. В интерфейсе логи уходят в файл, чтобы не портить экран.
func newLogger(toFile bool) (*zap.SugaredLogger, func(), error) {
	zc := zap.NewProductionConfig()
	if cfg.DebugMode {
		zc = zap.NewDevelopmentConfig()
	} else if !toFile {
		zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	if toFile {
		path := cfg.LogFile
		if path == "" {
			path = os.DevNull
		}
		zc.OutputPaths = []string{path}
		zc.ErrorOutputPaths = []string{path}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	sugar := logger.Sugar()
	//сброс буфера логгера
	sync := func() {
		_ = logger.Sync()
	}
	return sugar, sync, nil
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Erreur: %s: %v\n", msg, err)
}
