// Package prompt turns parsed commands into prompts for the model.
// It does no I/O.
package prompt

import (
	"fmt"
	"strings"

	"github.com/j0lvera/kickoff/internal/command"
)

// UsageError is returned when a command lacks the arguments it needs.
type UsageError struct {
	Command string
	Usage   string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage: %s", e.Usage)
}

// Hint is the text shown to the user.
func (e *UsageError) Hint() string {
	return e.Usage
}

var usages = map[command.Kind]string{
	command.Fixtures:  "Please give a league code. Example: /fixtures pl",
	command.Analyze:   "Please give two teams to analyze. Example: /predict realmadrid barcelona",
	command.Form:      "Please give a team name. Example: /form galatasaray",
	command.Standings: "Please give a league code. Example: /standings tsl",
}

// Builder builds prompts from Templates.
type Builder struct {
	t Templates
}

// New returns a Builder. Empty templates fall back to DefaultTemplates.
func New(t Templates) *Builder {
	return &Builder{t: t.WithDefaults()}
}

// Build returns the prompt for a command that is answered by the model.
// Missing arguments yield a *UsageError.
func (b *Builder) Build(cmd command.Command) (string, error) {
	switch cmd.Kind {
	case command.Fixtures:
		if len(cmd.Args) < 1 {
			return "", usage(cmd)
		}
		return fmt.Sprintf(b.t.Fixtures, strings.ToLower(cmd.Args[0])), nil

	case command.Standings:
		if len(cmd.Args) < 1 {
			return "", usage(cmd)
		}
		return fmt.Sprintf(b.t.Standings, strings.ToLower(cmd.Args[0])), nil

	case command.Analyze:
		if len(cmd.Args) < 2 {
			return "", usage(cmd)
		}
		return fmt.Sprintf(b.t.Analyze, strings.Join(cmd.Args, " ")), nil

	case command.Form:
		if len(cmd.Args) < 1 {
			return "", usage(cmd)
		}
		return fmt.Sprintf(b.t.Form, strings.Join(cmd.Args, " ")), nil

	case command.Test:
		return b.t.Test, nil

	case command.Freeform:
		return b.BuildFreeform(cmd.Text), nil
	}

	return "", fmt.Errorf("command %q has no prompt", cmd.Kind)
}

// BuildFreeform wraps raw user text.
func (b *Builder) BuildFreeform(text string) string {
	return fmt.Sprintf(b.t.Freeform, strings.TrimSpace(text))
}

// Help is the static command reference.
func (b *Builder) Help() string {
	return b.t.Help
}

// Welcome is the reply to /start.
func (b *Builder) Welcome() string {
	return b.t.Welcome
}

func usage(cmd command.Command) *UsageError {
	return &UsageError{Command: cmd.Kind.String(), Usage: usages[cmd.Kind]}
}
