package cmd

import (
	"AdStudio/internal/app/studio"
	"AdStudio/internal/catalog"
	"AdStudio/internal/service/quota"
	"AdStudio/internal/service/script"
	"AdStudio/internal/service/tts"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	speakVoice    string
	speakVoiceB   string
	speakDialogue bool
	speakFile     string
	speakOut      string
	speakNoPlay   bool
	speakStyle    string
)

var speakCmd = &cobra.Command{
	Use:   "speak [texte]",
	Short: "Génère et lit un spot en une commande",
	Example: `  adstudio speak "Les soldes commencent demain !"
  adstudio speak --dialogue --voice Orus --voice-b Kore --file duo.txt --out spot.wav`,
	RunE: runSpeak,
}

func init() {
	rootCmd.AddCommand(speakCmd)

	speakCmd.Flags().StringVar(&speakVoice, "voice", "Orus", "Voix solo ou première voix du dialogue")
	speakCmd.Flags().StringVar(&speakVoiceB, "voice-b", "Kore", "Deuxième voix du dialogue")
	speakCmd.Flags().BoolVar(&speakDialogue, "dialogue", false, "Mode dialogue à deux voix")
	speakCmd.Flags().StringVarP(&speakFile, "file", "f", "", "Lire le texte depuis un fichier (- pour stdin)")
	speakCmd.Flags().StringVarP(&speakOut, "out", "o", "", "Enregistrer le résultat en WAV")
	speakCmd.Flags().BoolVar(&speakNoPlay, "no-play", false, "Ne pas lire le résultat")
	speakCmd.Flags().StringVar(&speakStyle, "style", script.DynamicRadioPersona, "Direction de lecture")
}

func runSpeak(cmd *cobra.Command, args []string) error {
	text, err := readInput(args, speakFile)
	if err != nil {
		return err
	}
	sel, err := selection(speakVoice, speakVoiceB, speakDialogue)
	if err != nil {
		return err
	}
	if speakNoPlay && speakOut == "" {
		return errors.New("--no-play sans --out: rien à faire")
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
	used := tracker.Load(ctx, id.Key)
	if tracker.IsExhausted(used) {
		return fmt.Errorf("%w: %s", quota.ErrExhausted, studio.MsgQuotaExhausted(tracker.Cap()))
	}

	pipe := newPipeline(logger)
	if !speakNoPlay {
		if err := pipe.Unlock(); err != nil {
			return fmt.Errorf("sortie audio: %w", err)
		}
	}

	buf, err := pipe.Synthesize(ctx, text, sel, speakStyle)
	if err != nil {
		return err
	}
	used = tracker.RecordGeneration(ctx)
	fmt.Fprintf(cmd.ErrOrStderr(), "Généré %s · quota %d/%d\n", buf.Duration().Round(100*time.Millisecond), used, tracker.Cap())

	if speakOut != "" {
		f, err := os.Create(speakOut)
		if err != nil {
			return err
		}
		if err := buf.WriteWAV(f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", speakOut)
	}

	if speakNoPlay {
		return nil
	}
	done := make(chan struct{})
	if err := pipe.Play(buf, func() { close(done) }); err != nil {
		return err
	}
	select {
	case <-done:
	case <-ctx.Done():
		pipe.Stop()
	}
	return nil
}

// selection привязки голосов по ID каталога.
func selection(voice, voiceB string, dialogue bool) (tts.Selection, error) {
	cat := catalog.Default()
	a, ok := cat.ByID(voice)
	if !ok {
		return tts.Selection{}, fmt.Errorf("voix inconnue %q (voir: adstudio voices)", voice)
	}
	sel := tts.Selection{First: tts.SpeakerBinding{Speaker: a.DisplayName, VoiceID: a.ID}}
	if !dialogue {
		return sel, nil
	}
	b, ok := cat.ByID(voiceB)
	if !ok {
		return tts.Selection{}, fmt.Errorf("voix inconnue %q (voir: adstudio voices)", voiceB)
	}
	sel.Second = &tts.SpeakerBinding{Speaker: b.DisplayName, VoiceID: b.ID}
	return sel, nil
}
