// Package dispatch handles one incoming message from start to reply:
// authorize, route, build the prompt, generate, answer.
package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/j0lvera/kickoff/internal/ai"
	"github.com/j0lvera/kickoff/internal/command"
	"github.com/j0lvera/kickoff/internal/guard"
	"github.com/j0lvera/kickoff/internal/prompt"
)

// Fixed replies.
const (
	NotAuthorizedText  = "You are not authorized to use this bot."
	ApologyText        = "Sorry, an error occurred during the analysis."
	UnknownCommandText = "Unknown command. Send /help to see what I can do."
)

const defaultTypingTimeout = 5 * time.Second

// Messenger sends replies back to a chat.
type Messenger interface {
	// SendText sends text. When rich is set the platform's markup is applied.
	SendText(ctx context.Context, chatID int64, text string, rich bool) error
	SendTyping(ctx context.Context, chatID int64) error
}

// Message is an inbound text message.
type Message struct {
	SenderID  int64
	ChatID    int64
	MessageID int
	Text      string
}

// Outcome is the terminal state a message ended in.
type Outcome int

const (
	// Ignored messages carry no text.
	Ignored Outcome = iota
	Denied
	Usage
	// Static replies need no generation (help, welcome, unknown command).
	Static
	Done
	Failed
)

var outcomeNames = [...]string{"ignored", "denied", "usage", "static", "done", "failed"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// DenialPolicy decides what a stranger gets back.
type DenialPolicy int

const (
	DenySilently DenialPolicy = iota
	DenyWithReply
)

// Deps are the read-only collaborators of a Dispatcher.
type Deps struct {
	Guard     guard.Guard
	Builder   *prompt.Builder
	Generator ai.Generator
	Messenger Messenger
	Policy    DenialPolicy
	Logger    zerolog.Logger
}

// Dispatcher keeps no state between messages; Handle is safe for
// concurrent use.
type Dispatcher struct {
	guard         guard.Guard
	builder       *prompt.Builder
	generator     ai.Generator
	messenger     Messenger
	policy        DenialPolicy
	logger        zerolog.Logger
	typingTimeout time.Duration
}

func New(deps Deps) *Dispatcher {
	return &Dispatcher{
		guard:         deps.Guard,
		builder:       deps.Builder,
		generator:     deps.Generator,
		messenger:     deps.Messenger,
		policy:        deps.Policy,
		logger:        deps.Logger,
		typingTimeout: defaultTypingTimeout,
	}
}

// Handle runs msg through the pipeline and reports where it ended.
func (d *Dispatcher) Handle(ctx context.Context, msg Message) Outcome {
	if strings.TrimSpace(msg.Text) == "" {
		return Ignored
	}

	log := d.logger.With().
		Int64("chat_id", msg.ChatID).
		Int64("user_id", msg.SenderID).
		Logger()

	if !d.guard.Permit(msg.SenderID) {
		log.Warn().Msg("unauthorized access attempt")
		if d.policy == DenyWithReply {
			d.reply(ctx, &log, msg.ChatID, NotAuthorizedText, false)
		}
		return Denied
	}

	cmd := command.Parse(msg.Text)
	log = log.With().Str("command", cmd.Kind.String()).Logger()

	switch cmd.Kind {
	case command.Start:
		d.reply(ctx, &log, msg.ChatID, d.builder.Welcome(), false)
		return Static
	case command.Help:
		d.reply(ctx, &log, msg.ChatID, d.builder.Help(), true)
		return Static
	case command.Unknown:
		log.Info().Str("name", cmd.Name).Msg("unknown command")
		d.reply(ctx, &log, msg.ChatID, UnknownCommandText, false)
		return Static
	}

	p, err := d.builder.Build(cmd)
	if err != nil {
		var usageErr *prompt.UsageError
		if errors.As(err, &usageErr) {
			log.Info().Str("usage", usageErr.Usage).Msg("command is missing arguments")
			d.reply(ctx, &log, msg.ChatID, usageErr.Hint(), false)
			return Usage
		}
		log.Error().Err(err).Msg("unable to build prompt")
		d.reply(ctx, &log, msg.ChatID, ApologyText, false)
		return Failed
	}

	var indicator errgroup.Group
	indicator.Go(func() error {
		d.typing(ctx, log, msg.ChatID)
		return nil
	})

	log.Info().Int("prompt_length", len(p)).Msg("ai request sending")
	text, err := d.generator.Generate(ctx, p)

	// The indicator must reach the chat before the answer, otherwise it
	// lingers after the reply. typing is bounded by typingTimeout.
	_ = indicator.Wait()

	if err != nil {
		log.Error().Err(err).Msg("unable to generate ai response")
		d.reply(ctx, &log, msg.ChatID, ApologyText, false)
		return Failed
	}
	log.Info().Int("response_length", len(text)).Msg("ai response received")

	d.reply(ctx, &log, msg.ChatID, text, true)
	return Done
}

// typing shows the typing indicator. Its result never affects the outcome.
func (d *Dispatcher) typing(ctx context.Context, log zerolog.Logger, chatID int64) {
	ctx, cancel := context.WithTimeout(ctx, d.typingTimeout)
	defer cancel()

	if err := d.messenger.SendTyping(ctx, chatID); err != nil {
		log.Debug().Err(err).Msg("unable to send typing action")
	}
}

func (d *Dispatcher) reply(ctx context.Context, log *zerolog.Logger, chatID int64, text string, rich bool) {
	if err := d.messenger.SendText(ctx, chatID, text, rich); err != nil {
		log.Error().Err(err).Msg("unable to send reply")
	}
}
