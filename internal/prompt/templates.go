package prompt

import (
	"fmt"
	"strings"
)

// Templates holds the prompt formats and static replies. Prompt formats take
// exactly one %s verb, except Test which takes none.
type Templates struct {
	Fixtures  string `toml:"fixtures"`
	Analyze   string `toml:"analyze"`
	Form      string `toml:"form"`
	Standings string `toml:"standings"`
	Freeform  string `toml:"freeform"`
	Test      string `toml:"test"`

	Welcome string `toml:"welcome"`
	Help    string `toml:"help"`
}

// DefaultTemplates is used for any template left empty in the prompts file.
var DefaultTemplates = Templates{
	Fixtures: "List this week's fixtures for the %s league, with the day and kick-off time of every match.",
	Analyze: "Write a detailed analysis of the upcoming %s match. Cover both teams' current form, " +
		"injured and suspended players, the results of their last 5 head-to-head meetings, " +
		"the tactics each side is likely to use, and a statistics-based prediction of the result " +
		"with percentages for home win, draw and away win.",
	Form:      "Summarize the results, scores and overall performance of %s in their last 5 official matches across all competitions.",
	Standings: "Show the current standings of the %s league as a detailed table.",
	Freeform:  "You are a football analyst. Give the best and most detailed answer you can to the following question: %s",
	Test:      "Introduce yourself in two sentences and say what kind of football questions you can answer.",

	Welcome: "Hello! Your football analysis assistant is ready. Send /help to see the available commands.",
	Help: "*Available commands:*\n\n" +
		"`/help` - Show this help menu.\n\n" +
		"`/fixtures <league_code>` - This week's fixtures for a league.\n" +
		"*Example:* `/fixtures pl`\n\n" +
		"`/analyze` or `/predict <team1> <team2>` - Match analysis and prediction.\n" +
		"*Example:* `/predict realmadrid barcelona`\n\n" +
		"`/form <team_name>` - The team's last 5 matches.\n" +
		"*Example:* `/form fenerbahce`\n\n" +
		"`/standings <league_code>` - The league table.\n" +
		"*Example:* `/standings tsl`\n\n" +
		"`/test` - Check that the model is answering.\n\n" +
		"Any other message is answered as a free football question.\n\n" +
		"*League codes:* `tsl`, `pl`, `ll`, `bl`, `sa`, `l1`, `ere`, `ppl`",
}

// WithDefaults returns a copy of t with every empty field taken from
// DefaultTemplates.
func (t Templates) WithDefaults() Templates {
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&t.Fixtures, DefaultTemplates.Fixtures)
	fill(&t.Analyze, DefaultTemplates.Analyze)
	fill(&t.Form, DefaultTemplates.Form)
	fill(&t.Standings, DefaultTemplates.Standings)
	fill(&t.Freeform, DefaultTemplates.Freeform)
	fill(&t.Test, DefaultTemplates.Test)
	fill(&t.Welcome, DefaultTemplates.Welcome)
	fill(&t.Help, DefaultTemplates.Help)
	return t
}

// Validate checks the verb count of every prompt format.
func (t Templates) Validate() error {
	formats := []struct {
		name  string
		value string
		verbs int
	}{
		{"fixtures", t.Fixtures, 1},
		{"analyze", t.Analyze, 1},
		{"form", t.Form, 1},
		{"standings", t.Standings, 1},
		{"freeform", t.Freeform, 1},
		{"test", t.Test, 0},
	}

	for _, f := range formats {
		if got := countVerbs(f.value); got != f.verbs {
			return fmt.Errorf("prompt %q: want %d %%s verb(s), found %d", f.name, f.verbs, got)
		}
		if n := strings.Count(strings.ReplaceAll(f.value, "%%", ""), "%"); n != f.verbs {
			return fmt.Errorf("prompt %q: only %%s verbs are allowed", f.name)
		}
	}
	return nil
}

func countVerbs(format string) int {
	return strings.Count(strings.ReplaceAll(format, "%%", ""), "%s")
}
