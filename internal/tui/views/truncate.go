package views

// titleBudget is the display budget for sidebar titles. Truncation is a
// rendering concern only; stored titles are never mutated.
const titleBudget = 28

func truncateTitle(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
