package cmd

import (
	"errors"
	"io"
	"os"
	"strings"
)

// readInput текст из аргументов, файла или stdin ("-").
func readInput(args []string, file string) (string, error) {
	var text string
	switch {
	case file == "-":
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		text = string(b)
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		text = string(b)
	default:
		text = strings.Join(args, " ")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("texte vide: passez le texte en argument, --file ou --file -")
	}
	return text, nil
}
