package sync

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Document — нетипизированный мешок полей удалённого хранилища.
// Типизация — забота адаптера (fieldmap.go).
type Document map[string]any

// Event — сообщение put/patch из потока изменений.
type Event struct {
	Type string // put | patch
	Path string // путь внутри прослушиваемого поддерева, "/" — корень
	Data json.RawMessage
}

// Client — HTTP-клиент документного дерева (REST в стиле RTDB: путь + .json,
// push через POST, слушатель через SSE).
type Client struct {
	base  string
	token string
	hc    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		token: token,
		hc:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) url(parts ...string) string {
	p := strings.Join(parts, "/")
	u := c.base + "/" + p + ".json"
	if c.token != "" {
		u += "?auth=" + c.token
	}
	return u
}

func (c *Client) do(ctx context.Context, method, url string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%s %s: http %d: %s", method, url, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Children — все дочерние документы пути; null на пустом пути — пустая мапа.
func (c *Client) Children(ctx context.Context, path string) (map[string]Document, error) {
	var out map[string]Document
	if err := c.do(ctx, http.MethodGet, c.url(path), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]Document{}
	}
	return out, nil
}

// Push — добавление с генерируемым ключом.
func (c *Client) Push(ctx context.Context, path string, doc Document) (string, error) {
	var resp struct {
		Name string `json:"name"`
	}
	if err := c.do(ctx, http.MethodPost, c.url(path), doc, &resp); err != nil {
		return "", err
	}
	return resp.Name, nil
}

// Set — перезапись по ключу (семантика «последняя запись побеждает»).
func (c *Client) Set(ctx context.Context, path, key string, doc Document) error {
	return c.do(ctx, http.MethodPut, c.url(path, key), doc, nil)
}

// Listen — одно SSE-соединение; канал закрывается при обрыве или отмене
// контекста. Переподключение — забота вызывающего (Engine).
func (c *Client) Listen(ctx context.Context, path string) (<-chan Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	// без общего таймаута: поток живёт долго
	hc := &http.Client{}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("listen %s: http %d", path, resp.StatusCode)
	}

	ch := make(chan Event)
	go func() {
		defer close(ch)
		defer func() { _ = resp.Body.Close() }()

		sc := bufio.NewScanner(resp.Body)
		sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
		var event string
		for sc.Scan() {
			line := sc.Text()
			switch {
			case strings.HasPrefix(line, "event:"):
				event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
				if event != "put" && event != "patch" {
					continue // keep-alive и служебные события
				}
				var payload struct {
					Path string          `json:"path"`
					Data json.RawMessage `json:"data"`
				}
				if err := json.Unmarshal([]byte(data), &payload); err != nil {
					continue
				}
				select {
				case ch <- Event{Type: event, Path: payload.Path, Data: payload.Data}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
