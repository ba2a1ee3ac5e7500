package ai

import "context"

// Client интерфейс генерации текста. Все реализации должны быть взаимозаменяемыми.
type Client interface {
	SendRequest(ctx context.Context, prompt string) (string, error)
}
