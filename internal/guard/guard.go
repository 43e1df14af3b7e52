// Package guard decides who may talk to the bot.
package guard

// Guard admits exactly one Telegram user.
type Guard struct {
	allowed int64
}

func New(allowed int64) Guard {
	return Guard{allowed: allowed}
}

// Permit reports whether id is the configured user.
func (g Guard) Permit(id int64) bool {
	return g.allowed != 0 && id == g.allowed
}
