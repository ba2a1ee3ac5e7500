package cmd

import (
	"AdStudio/internal/catalog"
	"AdStudio/internal/service/quota"
	"AdStudio/internal/service/script"
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	improveDialogue bool
	improveVoiceA   string
	improveVoiceB   string
	improveFile     string
)

var improveCmd = &cobra.Command{
	Use:   "improve [texte]",
	Short: "Réécrit un texte en spot radio (solo ou dialogue)",
	RunE:  runImprove,
}

func init() {
	rootCmd.AddCommand(improveCmd)

	improveCmd.Flags().BoolVar(&improveDialogue, "dialogue", false, "Produire un dialogue à deux voix")
	improveCmd.Flags().StringVar(&improveVoiceA, "voice-a", "Orus", "Première voix (son nom d'affichage est utilisé)")
	improveCmd.Flags().StringVar(&improveVoiceB, "voice-b", "Kore", "Deuxième voix")
	improveCmd.Flags().StringVarP(&improveFile, "file", "f", "", "Lire le texte depuis un fichier (- pour stdin)")
}

func runImprove(cmd *cobra.Command, args []string) error {
	text, err := readInput(args, improveFile)
	if err != nil {
		return err
	}

	logger, sync, err := newLogger(false)
	if err != nil {
		return err
	}
	defer sync()

	tracker, store, err := openQuota(logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	id := newResolver(logger).Resolve(ctx)
	if tracker.IsExhausted(tracker.Load(ctx, id.Key)) {
		return quota.ErrExhausted
	}

	cat := catalog.Default()
	a := cat.DisplayName(improveVoiceA, "Voix 1")
	b := cat.DisplayName(improveVoiceB, "Voix 2")

	ctx, cancel := context.WithTimeoutCause(ctx, cfg.RequestTimeout, errors.New("rewrite timeout"))
	defer cancel()

	out, err := script.Rewrite(ctx, newTextClient(logger), text, improveDialogue, a, b, script.DynamicRadioPersona)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
