package engine

import "strings"

// Keyword sets shared by every state. Matching is case-insensitive on the
// trimmed message body; accented and unaccented spellings are both listed so
// users typing without diacritics are understood.
var (
	skipKeywords = map[string]bool{
		"pular":        true,
		"nao informar": true,
		"não informar": true,
	}

	doneKeywords = map[string]bool{
		"pronto":  true,
		"só isso": true,
		"so isso": true,
	}

	resetKeywords = map[string]bool{
		"reiniciar": true,
		"recomeçar": true,
		"recomecar": true,
		"cancelar":  true,
	}

	yesKeywords = map[string]bool{
		"sim": true,
		"s":   true,
	}
)

func normalizeInput(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func isSkip(text string) bool  { return skipKeywords[normalizeInput(text)] }
func isDone(text string) bool  { return doneKeywords[normalizeInput(text)] }
func isReset(text string) bool { return resetKeywords[normalizeInput(text)] }
func isYes(text string) bool   { return yesKeywords[normalizeInput(text)] }
