package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const mePath = "/api/me"

// Client клиент для работы с UserService портала
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента UserService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetMe получает пользователя по bearer-токену
func (c *Client) GetMe(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+mePath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, ErrUserNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &user, nil
}

// ResolveUserIDWithGracefulDegradation определяет id пользователя для сохранения расчета
// Без токена расчет анонимный (nil). Отклоненный токен возвращает ErrUnauthorized.
// При недоступности UserService расчет тоже сохраняется анонимно, ошибка не возвращается.
func (c *Client) ResolveUserIDWithGracefulDegradation(ctx context.Context, token string) (*int64, error) {
	if token == "" {
		return nil, nil
	}

	user, err := c.GetMe(ctx, token)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			c.log.Warn("UserService rejected token")
			return nil, err
		}

		// Повышаем уровень логирования до ERROR, чтобы быстрее заметить проблему
		c.log.Error("UserService unavailable, calculation will be stored without user: %v", err)
		return nil, nil
	}

	c.log.Info("Resolved user_id=%d for calculation", user.ID)
	return &user.ID, nil
}
