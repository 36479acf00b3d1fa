package markup

import "strings"

// defaultLinkLabel используется, когда подпись ссылки не задана.
const defaultLinkLabel = "Link"

// specialChars — полный набор символов, зарезервированных Telegram MarkdownV2.
// Замена идёт слева направо по этому списку; обратный слэш в набор не входит,
// поэтому уже экранированный символ повторно не совпадает.
var specialChars = []string{
	"_", "*", "[", "]", "(", ")", "~", "`", ">", "#",
	"+", "-", "=", "|", "{", "}", ".", "!",
}

// Escape экранирует текст для MarkdownV2, добавляя обратный слэш перед каждым
// зарезервированным символом. Пустая строка возвращается как есть.
func Escape(text string) string {
	if text == "" {
		return ""
	}
	for _, ch := range specialChars {
		text = strings.ReplaceAll(text, ch, `\`+ch)
	}
	return text
}

// Link строит ссылку MarkdownV2. Подпись экранируется, адрес вставляется
// как есть — внутри синтаксиса ссылки URL не экранируется. Без адреса
// возвращается пустая строка, без подписи подставляется "Link".
func Link(url, label string) string {
	if url == "" {
		return ""
	}
	if label == "" {
		label = defaultLinkLabel
	}
	return "[" + Escape(label) + "](" + url + ")"
}
