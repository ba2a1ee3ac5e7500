package cmd

import (
	"AdStudio/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var studioCmd = &cobra.Command{
	Use:     "studio",
	Aliases: []string{"ui"},
	Short:   "Ouvre le studio interactif",
	Long: `Ouvre le studio dans le terminal.

Raccourcis:
  ctrl+p / F5   lecture, stop ou annulation
  ctrl+r        améliorer le texte
  ctrl+t        basculer solo / duo
  tab           choisir la voix à modifier
  ctrl+n/b      voix suivante / précédente
  ctrl+g        filtre homme / femme / tous
  ctrl+s        exporter le dernier audio en WAV
  esc           fermer l'erreur ou quitter`,
	RunE: runStudio,
}

func init() {
	rootCmd.AddCommand(studioCmd)
}

func runStudio(cmd *cobra.Command, _ []string) error {
	logger, sync, err := newLogger(true)
	if err != nil {
		return err
	}
	defer sync()

	tracker, store, err := openQuota(logger)
	if err != nil {
		return err
	}
	defer store.Close()

	st := newStudio(tracker, logger)
	defer st.Close()

	logger.Infow("Starting studio", "tts", cfg.TTSService, "text", cfg.TextService, "quotaStore", cfg.Quota.Store)
	st.Start(cmd.Context())

	_, err = tea.NewProgram(tui.New(st), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}
