package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
)

const DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// Аудио-ответ с base64 может быть большим: минута речи ≈ 2.8 МБ в base64.
const maxResponseBytes = 64 << 20

var scopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/generative-language",
}

// Transport выполняет models/{model}:generateContent. Авторизация: API-ключ,
// а если он пуст, Application Default Credentials.
type Transport struct {
	endpoint string
	apiKey   string
	logger   *zap.SugaredLogger

	mu   sync.Mutex
	http *http.Client
	adc  func(ctx context.Context, scope ...string) (*http.Client, error)
}

func NewTransport(endpoint, apiKey string, logger *zap.SugaredLogger) *Transport {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	t := &Transport{endpoint: endpoint, apiKey: strings.TrimSpace(apiKey), logger: logger, adc: google.DefaultClient}
	if t.apiKey != "" {
		t.http = http.DefaultClient
	}
	return t
}

// WithHTTPClient фиксирует HTTP-клиент (тесты, прокси). ADC в этом случае не используется.
func (t *Transport) WithHTTPClient(c *http.Client) *Transport {
	t.mu.Lock()
	t.http = c
	t.mu.Unlock()
	return t
}

// client возвращает HTTP-клиент. ADC-клиент кешируется на всё время жизни Transport,
// поэтому строится от context.Background(): обновление токена не должно зависеть от запроса.
func (t *Transport) client() (*http.Client, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.http != nil {
		return t.http, nil
	}
	c, err := t.adc(context.Background(), scopes...)
	if err != nil {
		return nil, errors.New("gemini: no API key and ADC credentials not found. Set GEMINI_API_KEY or GOOGLE_APPLICATION_CREDENTIALS")
	}
	t.http = c
	return c, nil
}

// GenerateContent отправляет запрос и возвращает сырое JSON-тело ответа.
func (t *Transport) GenerateContent(ctx context.Context, model string, payload GenerateRequest) ([]byte, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("gemini: empty model name")
	}
	body, err := json.Marshal(&payload)
	if err != nil {
		return nil, err
	}
	hc, err := t.client()
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", t.endpoint, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if t.apiKey != "" {
		req.Header.Set("x-goog-api-key", t.apiKey)
	}

	started := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return nil, fmt.Errorf("gemini: %w", cause)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if t.logger != nil {
		t.logger.Infow("Gemini request completed", "model", model, "status", resp.StatusCode, "took", time.Since(started).String())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := gjson.GetBytes(b, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(b))
		}
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("gemini error: status=%d, message=%s", resp.StatusCode, msg)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("gemini: read response: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New("gemini: malformed json response")
	}
	return data, nil
}

// InlineData первый base64 из inlineData среди частей первого кандидата.
func InlineData(body []byte) string {
	for _, p := range gjson.GetBytes(body, "candidates.0.content.parts").Array() {
		if d := p.Get("inlineData.data").String(); d != "" {
			return d
		}
	}
	return ""
}

// Text склеенный текст частей первого кандидата.
func Text(body []byte) string {
	var sb strings.Builder
	for _, p := range gjson.GetBytes(body, "candidates.0.content.parts").Array() {
		sb.WriteString(p.Get("text").String())
	}
	return sb.String()
}

// BlockReason причина блокировки запроса фильтрами, если есть.
func BlockReason(body []byte) string {
	return gjson.GetBytes(body, "promptFeedback.blockReason").String()
}
