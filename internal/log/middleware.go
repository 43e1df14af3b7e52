package log

import (
	"context"
	"time"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

const previewLength = 50

// Middleware logs every update the bot receives and how long its handler ran.
func Middleware(logger zerolog.Logger) tbot.Middleware {
	return func(next tbot.HandlerFunc) tbot.HandlerFunc {
		return func(ctx context.Context, tg *tbot.Bot, update *models.Update) {
			start := time.Now()

			event := logger.Debug().Int64("update_id", update.ID)
			if msg := update.Message; msg != nil {
				event = event.
					Int("message_id", msg.ID).
					Int64("chat_id", msg.Chat.ID).
					Str("text_preview", Truncate(msg.Text, previewLength))
				if msg.From != nil {
					event = event.Int64("user_id", msg.From.ID)
				}
			}
			event.Msg("update received")

			next(ctx, tg, update)

			logger.Debug().
				Int64("update_id", update.ID).
				Dur("duration", time.Since(start)).
				Msg("update handled")
		}
	}
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
