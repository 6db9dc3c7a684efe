package servicecatalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с каталогом услуг (Service Catalog)
// Каталог - внешний коллаборатор: отсюда берутся вместимость на слот,
// длительность и признак активности услуги
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента Service Catalog
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetService получает конфигурацию услуги по ID
func (c *Client) GetService(ctx context.Context, serviceID int64) (*Service, error) {
	url := fmt.Sprintf("%s/internal/services/%d", c.baseURL, serviceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid service ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrServiceNotFound
	case http.StatusGone:
		return nil, ErrServiceArchived
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var service Service
	if err := json.NewDecoder(resp.Body).Decode(&service); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &service, nil
}

// GetActiveService получает услугу и проверяет, что она активна
// Архивированная услуга не может материализовать слоты и принимать брони
func (c *Client) GetActiveService(ctx context.Context, serviceID int64) (*Service, error) {
	service, err := c.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	if !service.IsActive {
		c.log.Warn("Service id=%d is archived", serviceID)
		return nil, ErrServiceArchived
	}

	return service, nil
}
