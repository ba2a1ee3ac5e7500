package ai

import (
	"context"
	"strings"
)

// StubClient заглушка без сети: возвращает исходный текст из промпта («Texte source»),
// чтобы UI можно было гонять офлайн.
type StubClient struct{}

func NewStubClient() *StubClient { return &StubClient{} }

func (c *StubClient) SendRequest(_ context.Context, prompt string) (string, error) {
	const marker = `Texte source: "`
	i := strings.LastIndex(prompt, marker)
	if i < 0 {
		return "запрос получен", nil
	}
	rest := prompt[i+len(marker):]
	if j := strings.LastIndex(rest, "\"\nRenvoie"); j >= 0 {
		rest = rest[:j]
	}
	return rest, nil
}
