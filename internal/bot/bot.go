package bot

import (
	"context"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/j0lvera/kickoff/internal/ai"
	"github.com/j0lvera/kickoff/internal/config"
	"github.com/j0lvera/kickoff/internal/dispatch"
	"github.com/j0lvera/kickoff/internal/guard"
	"github.com/j0lvera/kickoff/internal/log"
	"github.com/j0lvera/kickoff/internal/prompt"
)

// menu is registered with Telegram so clients can suggest the commands.
var menu = []models.BotCommand{
	{Command: "help", Description: "Show the available commands"},
	{Command: "fixtures", Description: "This week's fixtures: /fixtures pl"},
	{Command: "analyze", Description: "Match analysis: /analyze arsenal chelsea"},
	{Command: "predict", Description: "Match prediction: /predict arsenal chelsea"},
	{Command: "form", Description: "Last 5 matches: /form galatasaray"},
	{Command: "standings", Description: "League table: /standings tsl"},
	{Command: "test", Description: "Check that the model answers"},
}

type Params struct {
	fx.In

	Config    *config.Config
	Generator ai.Generator
	Logger    zerolog.Logger
}

type Result struct {
	fx.Out

	Bot        *tbot.Bot
	Dispatcher *dispatch.Dispatcher
}

func New(lc fx.Lifecycle, p Params) (Result, error) {
	var d *dispatch.Dispatcher

	opts := []tbot.Option{
		tbot.WithMiddlewares(log.Middleware(p.Logger)),
		tbot.WithDefaultHandler(
			func(ctx context.Context, tg *tbot.Bot, update *models.Update) {
				handleUpdate(ctx, d, update, &p.Logger)
			},
		),
	}

	tg, err := tbot.New(p.Config.Token, opts...)
	if err != nil {
		return Result{}, err
	}

	policy := dispatch.DenySilently
	if p.Config.DenialPolicy == config.DenialReply {
		policy = dispatch.DenyWithReply
	}

	d = dispatch.New(dispatch.Deps{
		Guard:     guard.New(p.Config.AllowedUserID),
		Builder:   prompt.New(p.Config.Prompts),
		Generator: p.Generator,
		Messenger: NewTelegram(tg, p.Logger),
		Policy:    policy,
		Logger:    p.Logger,
	})

	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				p.Logger.Info().Msg("starting telegram bot...")
				if _, err := tg.SetMyCommands(ctx, &tbot.SetMyCommandsParams{Commands: menu}); err != nil {
					p.Logger.Warn().Err(err).Msg("unable to register command menu")
				}
				go tg.Start(runCtx)
				return nil
			},
			OnStop: func(ctx context.Context) error {
				p.Logger.Info().Msg("stopping telegram bot...")
				cancel()
				return nil
			},
		},
	)

	return Result{
		Bot:        tg,
		Dispatcher: d,
	}, nil
}

func Module() fx.Option {
	return fx.Module(
		"bot",
		fx.Provide(
			New,
		),
		fx.Invoke(
			func(bot *tbot.Bot) {},
		),
	)
}

// handleUpdate runs in its own goroutine per update.
func handleUpdate(ctx context.Context, d *dispatch.Dispatcher, update *models.Update, logger *zerolog.Logger) {
	msg, ok := toMessage(update)
	if !ok {
		return
	}

	outcome := d.Handle(ctx, msg)
	logger.Debug().
		Int64("chat_id", msg.ChatID).
		Int("message_id", msg.MessageID).
		Stringer("outcome", outcome).
		Msg("message handled")
}

func toMessage(update *models.Update) (dispatch.Message, bool) {
	if update == nil || update.Message == nil || update.Message.From == nil {
		return dispatch.Message{}, false
	}

	return dispatch.Message{
		SenderID:  update.Message.From.ID,
		ChatID:    update.Message.Chat.ID,
		MessageID: update.Message.ID,
		Text:      update.Message.Text,
	}, true
}
