package command

import "strings"

// Kind identifies what an incoming message asks the bot to do.
type Kind int

const (
	Freeform Kind = iota
	Start
	Help
	Test
	Fixtures
	Analyze
	Form
	Standings
	Unknown
)

var kindNames = map[Kind]string{
	Freeform:  "freeform",
	Start:     "start",
	Help:      "help",
	Test:      "test",
	Fixtures:  "fixtures",
	Analyze:   "analyze",
	Form:      "form",
	Standings: "standings",
	Unknown:   "unknown",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Generates reports whether the kind is answered by the model rather than
// with a static reply.
func (k Kind) Generates() bool {
	switch k {
	case Freeform, Test, Fixtures, Analyze, Form, Standings:
		return true
	}
	return false
}

// keywords maps command keywords to kinds. The Turkish keywords are the
// names the bot originally shipped with.
var keywords = map[string]Kind{
	"start":     Start,
	"help":      Help,
	"test":      Test,
	"fixtures":  Fixtures,
	"analyze":   Analyze,
	"predict":   Analyze,
	"form":      Form,
	"standings": Standings,

	"yardim":  Help,
	"fikstur": Fixtures,
	"analiz":  Analyze,
	"tahmin":  Analyze,
	"puan":    Standings,
}

// Lookup resolves a keyword (without the leading slash) to its kind.
func Lookup(keyword string) (Kind, bool) {
	k, ok := keywords[strings.ToLower(keyword)]
	return k, ok
}

// Command is a parsed incoming message.
type Command struct {
	Kind Kind
	// Name is the keyword as typed, lower-cased, without slash or @botname.
	Name string
	Args []string
	// Text is the raw message text, trimmed.
	Text string
}

// Parse turns message text into a Command. Text that does not start with a
// slash is freeform input.
func Parse(text string) Command {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return Command{Kind: Freeform, Text: text}
	}

	fields := strings.Fields(text[1:])
	if len(fields) == 0 {
		return Command{Kind: Unknown, Text: text}
	}

	name := fields[0]
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	name = strings.ToLower(name)

	kind, ok := keywords[name]
	if !ok {
		kind = Unknown
	}

	return Command{
		Kind: kind,
		Name: name,
		Args: fields[1:],
		Text: text,
	}
}
