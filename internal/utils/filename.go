package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxFilenameBytes leaves room for an extension within the usual 255 limit.
const maxFilenameBytes = 200

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	// Whitespace characters to normalize
	whitespaceChars = regexp.MustCompile(`[\r\n\t]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// SanitizeFilename turns a book title into a name usable on common
// filesystems and in markdown vaults. Invalid characters become underscores
// and whitespace is collapsed. A name with nothing usable left yields
// fallback.
func SanitizeFilename(name, fallback string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "_")
	name = whitespaceChars.ReplaceAllString(name, " ")
	name = multipleSpaces.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	// Markdown link and tag syntax
	name = strings.ReplaceAll(name, "#", "")
	name = strings.ReplaceAll(name, "[", "(")
	name = strings.ReplaceAll(name, "]", ")")

	if len(name) > maxFilenameBytes {
		cut := maxFilenameBytes
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = strings.TrimSpace(name[:cut])
	}

	if strings.Trim(name, "_ ") == "" {
		return fallback
	}
	return name
}
