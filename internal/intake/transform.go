package intake

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ProcessedSuffix is inserted between the stem and the extension of processed files.
const ProcessedSuffix = "_processed"

// SwapCase inverts the case of every cased rune and leaves all other runes alone.
// Title-case runes (e.g. U+01C5) are neither upper nor lower and pass through.
func SwapCase(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return unicode.ToLower(r)
		case unicode.IsLower(r):
			return unicode.ToUpper(r)
		default:
			return r
		}
	}, text)
}

// ProcessedName returns <stem>_processed<ext> for a source file name.
// Dotfiles without a further extension keep the whole name as the stem.
func ProcessedName(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if strings.Trim(stem, ".") == "" {
		stem, ext = name, ""
	}
	return stem + ProcessedSuffix + ext
}
