// Package api содержит HTTP-клиент REST API заметок.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"notesapp/internal/notes/domain/entities"
	"notesapp/pkg/logger"
)

// DefaultBaseURL адрес API по умолчанию.
const DefaultBaseURL = "http://localhost:5000/api"

const defaultTimeout = 10 * time.Second

// Сообщения об ошибках клиента.
const (
	ErrBuildRequest   = "failed to build request"
	ErrSendRequest    = "failed to reach notes API"
	ErrDecodeResponse = "failed to decode response"
	ErrEncodeRequest  = "failed to encode request"
)

// ErrNotFound возвращается, когда API отвечает 404.
var ErrNotFound = errors.New("note not found")

// APIError описывает ответ API с кодом ошибки.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Is позволяет сравнивать ответ 404 с ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// NoteInput содержит поля создаваемой или изменяемой заметки.
// Category равная nil не передается, и сервер назначает категорию по умолчанию.
type NoteInput struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Category *string `json:"category,omitempty"`
}

// Client обращается к REST API заметок.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создает клиента для API по адресу baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL возвращает адрес API.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Probe проверяет доступность API запросом списка заметок.
func (c *Client) Probe(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/notes", nil, nil)
}

// ListNotes возвращает все заметки.
func (c *Client) ListNotes(ctx context.Context) ([]*entities.Note, error) {
	var notes []*entities.Note
	if err := c.do(ctx, http.MethodGet, "/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// ListNotesByCategory возвращает заметки одной категории.
func (c *Client) ListNotesByCategory(ctx context.Context, category string) ([]*entities.Note, error) {
	var notes []*entities.Note
	if err := c.do(ctx, http.MethodGet, "/notes/category/"+url.PathEscape(category), nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// GetNote возвращает заметку по ID.
func (c *Client) GetNote(ctx context.Context, id int64) (*entities.Note, error) {
	var note entities.Note
	if err := c.do(ctx, http.MethodGet, notePath(id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// CreateNote создает заметку.
func (c *Client) CreateNote(ctx context.Context, input NoteInput) (*entities.Note, error) {
	var note entities.Note
	if err := c.do(ctx, http.MethodPost, "/notes", input, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote полностью заменяет заметку.
func (c *Client) UpdateNote(ctx context.Context, id int64, input NoteInput) (*entities.Note, error) {
	var note entities.Note
	if err := c.do(ctx, http.MethodPut, notePath(id), input, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote удаляет заметку и возвращает подтверждение сервера.
func (c *Client) DeleteNote(ctx context.Context, id int64) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodDelete, notePath(id), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func notePath(id int64) string {
	return "/notes/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	log := logger.Log(ctx).With(zap.String("method", method), zap.String("path", path))

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrEncodeRequest, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrBuildRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug(ctx, ErrSendRequest, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrSendRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrDecodeResponse, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		log.Debug(ctx, "api returned error", zap.Int("status", resp.StatusCode), zap.String("error", apiErr.Message))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", ErrDecodeResponse, err)
	}
	return nil
}
