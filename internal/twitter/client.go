package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/maine/viral_tweets_bot/internal/config"
	"github.com/maine/viral_tweets_bot/internal/tweets"
)

const (
	// requestTimeout — предел ожидания одного запроса к мосту.
	requestTimeout = 30 * time.Second
	// pageSize — сколько твитов запрашивается у моста за страницу.
	pageSize = 20
)

// Client инкапсулирует работу с REST-мостом скрейпера (twscrape-совместимый
// API): регистрация пула аккаунтов, вход и постраничный поиск.
type Client struct {
	baseURL  string
	apiKey   string
	accounts []config.Account
	client   *http.Client
}

// NewClient создаёт клиента моста. baseURL обязателен, apiKey может быть
// пустым, если мост не требует авторизации.
func NewClient(baseURL string, apiKey string, accounts []config.Account) *Client {
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		accounts: accounts,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

// Init регистрирует аккаунты в пуле моста и выполняет вход. Любая ошибка
// здесь фатальна для запуска: без рабочего пула поиск невозможен.
func (c *Client) Init(ctx context.Context) error {
	for _, acc := range c.accounts {
		payload := map[string]string{
			"username":       acc.Username,
			"password":       acc.Password,
			"email":          acc.Email,
			"email_password": acc.EmailPassword,
		}
		if acc.Cookies != "" {
			payload["cookies"] = acc.Cookies
		}
		if err := c.post(ctx, "/api/pool/add", payload); err != nil {
			return fmt.Errorf("add account %s: %w", acc.Username, err)
		}
	}

	if err := c.post(ctx, "/api/pool/login_all", nil); err != nil {
		return fmt.Errorf("login accounts: %w", err)
	}
	return nil
}

// Search возвращает ленивый поток твитов по запросу. Сетевые обращения
// начинаются только при первом вызове Next.
func (c *Client) Search(ctx context.Context, query string, limit int) *Stream {
	return &Stream{
		client: c,
		query:  query,
		limit:  limit,
	}
}

// searchResponse — страница результатов поиска моста.
type searchResponse struct {
	Tweets     []tweets.Tweet `json:"tweets"`
	NextCursor string         `json:"next_cursor"`
}

func (c *Client) searchPage(ctx context.Context, query string, count int, cursor string) ([]tweets.Tweet, string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(count))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/search?"+params.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("search request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("search request: status %d", resp.StatusCode)
	}

	var page searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, "", fmt.Errorf("decode search page: %w", err)
	}
	return page.Tweets, page.NextCursor, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("scraper api status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
}
