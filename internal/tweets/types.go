package tweets

import (
	"fmt"
	"time"
)

// Типы вложений, которые возвращает поисковый мост.
const (
	MediaTypePhoto    = "photo"
	MediaTypeImage    = "image"
	MediaTypeVideo    = "video"
	MediaTypeAnimated = "animated_gif"
	MediaTypeUnknown  = "unknown"
)

// MediaItem описывает одно вложение твита. Любое из полей с адресами может
// отсутствовать — отсутствие не является ошибкой.
type MediaItem struct {
	Type            string `json:"type"`
	URL             string `json:"url,omitempty"`
	MediaURLHTTPS   string `json:"media_url_https,omitempty"`
	MediaURL        string `json:"media_url,omitempty"`
	PreviewImageURL string `json:"preview_image_url,omitempty"`
}

// CandidateURLs возвращает присутствующие адреса вложения в фиксированном
// порядке приоритета: от основного URL к превью.
func (m MediaItem) CandidateURLs() []string {
	urls := make([]string, 0, 4)
	for _, u := range []string{m.URL, m.MediaURLHTTPS, m.MediaURL, m.PreviewImageURL} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Author содержит данные автора твита.
type Author struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayname"`
}

// Tweet описывает твит сразу после получения из поиска. Значение неизменяемо:
// обработчик цикла читает его и отбрасывает после отправки.
type Tweet struct {
	ID           string      `json:"id_str"`
	User         Author      `json:"user"`
	RawContent   string      `json:"rawContent"`
	LikeCount    int         `json:"likeCount"`
	RetweetCount int         `json:"retweetCount"`
	ReplyCount   int         `json:"replyCount"`
	Date         time.Time   `json:"date"`
	Media        []MediaItem `json:"media,omitempty"`
}

// PermalinkURL возвращает постоянную ссылку на твит.
func (t Tweet) PermalinkURL() string {
	return fmt.Sprintf("https://twitter.com/%s/status/%s", t.User.Username, t.ID)
}

// CycleStats — счётчики одного цикла мониторинга.
type CycleStats struct {
	Examined   int
	Duplicates int
	Sent       int
}

// Add прибавляет счётчики другого цикла (для накопления итогов процесса).
func (s *CycleStats) Add(other CycleStats) {
	s.Examined += other.Examined
	s.Duplicates += other.Duplicates
	s.Sent += other.Sent
}
