package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Identity результат определения пользователя. Это не аутентификация: IP легко подменить,
// ключ нужен только для мягкого учёта квоты.
type Identity struct {
	IP       string // Публичный IP или fallback-токен
	Key      string // Ключ записи квоты в хранилище
	Fallback bool   // true, если внешний сервис не ответил
}

// Resolver делает один запрос к сервису определения IP.
type Resolver struct {
	http     *http.Client
	url      string
	timeout  time.Duration
	prefix   string
	fallback string
	logger   *zap.SugaredLogger

	group singleflight.Group
}

func New(url string, timeout time.Duration, keyPrefix, fallback string, logger *zap.SugaredLogger) *Resolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Resolver{
		http:     http.DefaultClient,
		url:      url,
		timeout:  timeout,
		prefix:   keyPrefix,
		fallback: fallback,
		logger:   logger,
	}
}

// WithHTTPClient подменяет HTTP-клиент (тесты, прокси).
func (r *Resolver) WithHTTPClient(c *http.Client) *Resolver {
	r.http = c
	return r
}

// Resolve никогда не возвращает ошибку: при любом сбое, fallback-идентичность.
// Параллельные вызовы разделяют один запрос.
func (r *Resolver) Resolve(ctx context.Context) Identity {
	v, _, _ := r.group.Do("ip", func() (any, error) {
		ip, err := r.lookup(ctx)
		if err != nil {
			if r.logger != nil {
				r.logger.Warnw("IP lookup failed, using fallback identity", "fallback", r.fallback, "error", err)
			}
			return r.identity(r.fallback, true), nil
		}
		if r.logger != nil {
			r.logger.Infow("Identity resolved", "ip", ip)
		}
		return r.identity(ip, false), nil
	})
	return v.(Identity)
}

// Fallback идентичность без сетевого запроса.
func (r *Resolver) Fallback() Identity { return r.identity(r.fallback, true) }

func (r *Resolver) identity(ip string, fallback bool) Identity {
	return Identity{IP: ip, Key: StorageKey(r.prefix, ip), Fallback: fallback}
}

func (r *Resolver) lookup(parent context.Context) (string, error) {
	if strings.TrimSpace(r.url) == "" {
		return "", errors.New("identity: lookup url is empty")
	}
	ctx, cancel := context.WithTimeoutCause(parent, r.timeout, errors.New("identity: ip lookup timeout"))
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return "", cause
		}
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("identity: status=%d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("identity: read body: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return "", errors.New("identity: malformed json response")
	}
	ip := strings.TrimSpace(gjson.GetBytes(body, "ip").String())
	if ip == "" {
		return "", errors.New("identity: empty ip in response")
	}
	return ip, nil
}

// StorageKey ключ записи квоты: префикс + IP, где '.' и ':' заменены на '_'.
func StorageKey(prefix, ip string) string {
	return prefix + strings.NewReplacer(".", "_", ":", "_").Replace(ip)
}
