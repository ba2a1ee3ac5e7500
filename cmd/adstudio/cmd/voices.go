package cmd

import (
	"AdStudio/internal/catalog"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var voicesGender string

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "Liste les voix disponibles",
	// Каталог встроен в бинарь, конфигурация не нужна
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runVoices,
}

func init() {
	rootCmd.AddCommand(voicesCmd)
	voicesCmd.Flags().StringVarP(&voicesGender, "gender", "g", "", "Filtre: male|female|neutral")
}

func runVoices(cmd *cobra.Command, _ []string) error {
	g := catalog.Gender(strings.ToLower(strings.TrimSpace(voicesGender)))
	switch g {
	case "", catalog.Male, catalog.Female, catalog.Neutral:
	default:
		return fmt.Errorf("genre inconnu %q", voicesGender)
	}

	out := cmd.OutOrStdout()
	for _, v := range catalog.Default().Filter(g) {
		fmt.Fprintf(out, "%-14s %-10s %-7s %s\n", v.ID, v.DisplayName, v.Gender, v.Description)
	}
	return nil
}
