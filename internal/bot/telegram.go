package bot

import (
	"context"
	"fmt"
	"strings"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// maxMessageLength stays under Telegram's 4096 character limit.
const maxMessageLength = 4000

// Telegram sends replies through the Bot API.
type Telegram struct {
	tg     *tbot.Bot
	logger zerolog.Logger
}

func NewTelegram(tg *tbot.Bot, logger zerolog.Logger) *Telegram {
	return &Telegram{tg: tg, logger: logger}
}

// SendText sends text, split into several messages when it is too long.
// Rich text uses Telegram Markdown; if Telegram cannot parse it the same
// text is sent again without markup.
func (t *Telegram) SendText(ctx context.Context, chatID int64, text string, rich bool) error {
	for _, chunk := range splitMessage(text, maxMessageLength) {
		if err := t.send(ctx, chatID, chunk, rich); err != nil {
			return err
		}
	}
	return nil
}

func (t *Telegram) send(ctx context.Context, chatID int64, text string, rich bool) error {
	params := &tbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if rich {
		params.ParseMode = models.ParseModeMarkdownV1
	}

	_, err := t.tg.SendMessage(ctx, params)
	if err == nil {
		return nil
	}
	if !rich || !isParseError(err) {
		return fmt.Errorf("send message: %w", err)
	}

	t.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("markdown rejected, sending plain text")
	params.ParseMode = ""
	if _, err := t.tg.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send plain message: %w", err)
	}
	return nil
}

// SendTyping shows the typing indicator in chatID.
func (t *Telegram) SendTyping(ctx context.Context, chatID int64) error {
	_, err := t.tg.SendChatAction(ctx, &tbot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionTyping,
	})
	if err != nil {
		return fmt.Errorf("send typing action: %w", err)
	}
	return nil
}

func isParseError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "can't parse entities") || strings.Contains(msg, "can't parse entity")
}

// splitMessage cuts text into chunks of at most limit runes, preferring line
// boundaries.
func splitMessage(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if len([]rune(text)) <= limit {
		return []string{text}
	}

	var (
		chunks  []string
		current strings.Builder
		size    int
	)
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
		size = 0
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		if size+len(runes) > limit {
			flush()
		}
		for len(runes) > limit {
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		current.WriteString(string(runes))
		size += len(runes)
	}
	flush()

	return chunks
}
