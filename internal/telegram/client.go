package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	// parseMode — режим разметки всех исходящих сообщений.
	parseMode = "MarkdownV2"
	// messageTimeout — предел ожидания отправки текста и фото.
	messageTimeout = 30 * time.Second
	// videoTimeout — предел ожидания отправки видео (загрузка дольше).
	videoTimeout = 60 * time.Second
)

// TelegramClient определяет интерфейс для работы с Telegram Bot API.
// Это позволяет легко создавать моки для тестирования.
type TelegramClient interface {
	SendMessage(ctx context.Context, chatID string, text string) error
	SendPhoto(ctx context.Context, chatID string, photoURL string, caption string) error
	SendVideo(ctx context.Context, chatID string, videoURL string, caption string) error
}

// Client инкапсулирует работу с Telegram Bot API.
type Client struct {
	token  string
	client *http.Client
	apiURL string
}

// Убеждаемся, что Client реализует интерфейс TelegramClient.
var _ TelegramClient = (*Client)(nil)

// NewClient создаёт клиента. token обязателен. Таймаут задаётся на каждый
// вызов отдельно, поэтому у http.Client собственного таймаута нет.
func NewClient(token string) *Client {
	return &Client{
		token:  token,
		client: &http.Client{},
		apiURL: fmt.Sprintf("https://api.telegram.org/bot%s", token),
	}
}

// SendMessage отправляет текстовое сообщение.
func (c *Client) SendMessage(ctx context.Context, chatID string, text string) error {
	payload := map[string]interface{}{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               parseMode,
		"disable_web_page_preview": false,
	}
	return c.post(ctx, "sendMessage", payload, messageTimeout)
}

// SendPhoto отправляет фото по URL с подписью.
func (c *Client) SendPhoto(ctx context.Context, chatID string, photoURL string, caption string) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"photo":      photoURL,
		"caption":    caption,
		"parse_mode": parseMode,
	}
	return c.post(ctx, "sendPhoto", payload, messageTimeout)
}

// SendVideo отправляет видео по URL с подписью.
func (c *Client) SendVideo(ctx context.Context, chatID string, videoURL string, caption string) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"video":      videoURL,
		"caption":    caption,
		"parse_mode": parseMode,
	}
	return c.post(ctx, "sendVideo", payload, videoTimeout)
}

// apiResponse — общий конверт ответа Bot API.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *Client) post(ctx context.Context, method string, body interface{}, timeout time.Duration) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("telegram %s: marshal payload: %w", method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/"+method, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	// На отказ Bot API отвечает и не-2xx статусом, и конвертом с ok=false,
	// поэтому сначала читаем конверт: в нём есть человекочитаемая причина.
	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if resp.StatusCode >= 400 {
			return fmt.Errorf("telegram %s: status %d", method, resp.StatusCode)
		}
		return fmt.Errorf("telegram %s: decode response: %w", method, err)
	}
	if !out.OK {
		description := out.Description
		if description == "" {
			description = "no description"
		}
		return fmt.Errorf("telegram %s rejected: %s", method, description)
	}
	return nil
}
