package holiday

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultEmoji decorates titles that match nothing in emojiTable.
const DefaultEmoji = "📅"

// emojiTable is matched in order against the case-folded title; the first
// substring hit wins. More specific entries ("christmas eve") must stay ahead
// of broader ones ("christmas").
var emojiTable = []struct {
	match string
	emoji string
}{
	{"new year's eve", "🥂"},
	{"new year", "🎉"},
	{"martin luther king", "✊"},
	{"president", "🏛️"},
	{"memorial", "🪖"},
	{"juneteenth", "✊🏿"},
	{"independence", "🎆"},
	{"labor", "🛠️"},
	{"columbus", "⛵"},
	{"veterans", "🎖️"},
	{"thanksgiving", "🦃"},
	{"christmas eve", "🕯️"},
	{"christmas", "🎄"},
	{"groundhog", "🦫"},
	{"valentine", "💘"},
	{"mardi gras", "🎭"},
	{"ash wednesday", "✝️"},
	{"daylight saving", "⏰"},
	{"patrick", "☘️"},
	{"palm sunday", "🌿"},
	{"good friday", "✝️"},
	{"easter", "🐣"},
	{"april fools", "🃏"},
	{"tax day", "🧾"},
	{"earth day", "🌎"},
	{"arbor", "🌳"},
	{"cinco de mayo", "🪅"},
	{"mother", "💐"},
	{"flag day", "🇺🇸"},
	{"grandparent", "👵"},
	{"father", "👔"},
	{"patriot", "🕊️"},
	{"halloween", "🎃"},
	{"election", "🗳️"},
	{"black friday", "🛍️"},
	{"cyber monday", "💻"},
}

// EmojiFor returns the decoration for a title.
func EmojiFor(title string) string {
	folded := cases.Fold().String(title)
	for _, e := range emojiTable {
		if strings.Contains(folded, e.match) {
			return e.emoji
		}
	}
	return DefaultEmoji
}
