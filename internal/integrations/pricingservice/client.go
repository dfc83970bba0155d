package pricingservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	calcPath    = "/api/v1/osago/calc"
	refDataPath = "/api/v1/osago/ref-data"

	msgCalcFailed    = "Ошибка расчета"
	msgRefDataFailed = "Ошибка загрузки справочников"
)

// Client клиент для работы с сервисом расчета ОСАГО
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса расчета
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Calculate запрашивает расчет премии
// token необязателен: анонимный расчет разрешен
func (c *Client) Calculate(ctx context.Context, token string, calcReq *CalcRequest) (*CalcResponse, error) {
	body, err := json.Marshal(calcReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+calcPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	setBearer(req, token)

	c.log.Info("Calculate: category=%d, region=%d, hp=%d, unlimited=%t, term=%d",
		calcReq.VehicleCategoryID, calcReq.RegionID, calcReq.PowerHP, calcReq.UnlimitedDrivers, calcReq.TermMonths)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Calculate: request failed: %v", err)
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		rejected := newRejectedError(resp.StatusCode, readErrorMessage(resp.Body), msgCalcFailed)
		c.log.Warn("Calculate: rejected with status %d: %s", resp.StatusCode, rejected.Message)
		return nil, rejected
	}

	var calc CalcResponse
	if err := json.NewDecoder(resp.Body).Decode(&calc); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("Calculate: calc_request_id=%d, amount=%s", calc.CalcRequestID, calc.ResultAmount.StringFixed(2))
	return &calc, nil
}

// GetRefData получает справочники для формы расчета
func (c *Client) GetRefData(ctx context.Context, token string) (*RefDataResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+refDataPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	setBearer(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newRejectedError(resp.StatusCode, readErrorMessage(resp.Body), msgRefDataFailed)
	}

	var refData RefDataResponse
	if err := json.NewDecoder(resp.Body).Decode(&refData); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &refData, nil
}

func setBearer(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// readErrorMessage достает message из JSON тела ошибки, иначе возвращает тело как текст
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil {
		return strings.TrimSpace(errResp.Message)
	}

	return strings.TrimSpace(string(raw))
}
