package ai

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
)

// TextClient отправляет только текст в OpenAI (Responses API)
type TextClient struct {
	client *openai.Client
	model  openai.ChatModel
}

func NewTextClient(client *openai.Client, model string) *TextClient {
	m := openai.ChatModelGPT4o
	if strings.TrimSpace(model) != "" {
		m = openai.ChatModel(model)
	}
	return &TextClient{client: client, model: m}
}

func (c *TextClient) SendRequest(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:       c.model,
		Temperature: openai.Float(1),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(
					responses.ResponseInputMessageContentListParam{
						{
							OfInputText: &responses.ResponseInputTextParam{
								Text: prompt,
							},
						},
					},
					responses.EasyInputMessageRoleUser,
				),
			},
		},
	})
	if err != nil {
		return "", err
	}

	return resp.OutputText(), nil
}
