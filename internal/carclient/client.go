// Package carclient предоставляет клиент сервиса автомобилей для проверки существования машины.
package carclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotConfigured возвращается, если адрес сервиса автомобилей не задан.
var ErrNotConfigured = errors.New("car service client not configured")

// DefaultTimeout ограничивает время ожидания ответа сервиса автомобилей.
const DefaultTimeout = 5 * time.Second

// Client инкапсулирует HTTP-взаимодействие с сервисом автомобилей.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт HTTP-клиент для обращения к сервису автомобилей по указанному адресу.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := strings.TrimRight(baseURL, "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CarExists проверяет, что автомобиль с указанным идентификатором зарегистрирован.
// Ответ 404 означает отсутствие автомобиля, любой другой ответ кроме 2xx возвращается как ошибка.
func (c *Client) CarExists(ctx context.Context, carID string) (bool, error) {
	if c == nil || c.baseURL == "" {
		return false, ErrNotConfigured
	}

	u := fmt.Sprintf("%s/api/cars/%s", c.baseURL, url.PathEscape(carID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	default:
		return false, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
}
