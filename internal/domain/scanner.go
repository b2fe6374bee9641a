package domain

import (
	"fmt"
	"regexp"

	m "github.com/mouse-blink/traefik-replace/internal/model"
)

// placeholderPattern matches `$NAME` and `${NAME}`. Both braces are optional
// on their own, so `${NAME` and `$NAME}` are consumed as placeholders too.
// Names are made of Unicode word characters (letters, marks, digits, connectors).
var placeholderPattern = regexp.MustCompile(`\$\{?([\p{L}\p{Mn}\p{Nd}\p{Pc}]+)\}?`)

// ScanPlaceholders returns every placeholder in content, in document order.
func ScanPlaceholders(content string) ([]m.Placeholder, error) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	placeholders := make([]m.Placeholder, 0, len(matches))

	for _, loc := range matches {
		// loc holds start/end pairs for the whole match and the name group.
		if len(loc) < 4 || loc[2] < 0 || loc[3] <= loc[2] {
			return nil, fmt.Errorf("%w at offset %d", ErrMalformedPlaceholder, loc[0])
		}

		placeholders = append(placeholders, m.Placeholder{
			Offset: loc[0],
			Length: loc[1] - loc[0],
			Name:   content[loc[2]:loc[3]],
		})
	}

	return placeholders, nil
}
