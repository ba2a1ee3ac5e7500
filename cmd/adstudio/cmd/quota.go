package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Affiche l'identité détectée et le quota utilisé",
	RunE:  runQuota,
}

func init() {
	rootCmd.AddCommand(quotaCmd)
}

func runQuota(cmd *cobra.Command, _ []string) error {
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

	out := cmd.OutOrStdout()
	ip := id.IP
	if id.Fallback {
		ip += " (fallback)"
	}
	fmt.Fprintf(out, "IP:       %s\n", ip)
	fmt.Fprintf(out, "Clé:      %s\n", id.Key)
	fmt.Fprintf(out, "Quota:    %d/%d\n", used, tracker.Cap())
	fmt.Fprintf(out, "Restant:  %d\n", tracker.Remaining())
	if tracker.IsExhausted(used) {
		fmt.Fprintln(out, "QUOTA ÉPUISÉ")
	}
	return nil
}
