package htmlutil

import (
	"strings"

	"github.com/k3a/html2text"
)

// ToText converts rendered HTML to plain text for the terminal. Entities are
// decoded, tags stripped, trailing spaces trimmed and runs of blank lines
// collapsed to one.
func ToText(s string) string {
	text := html2text.HTML2Text(s)

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
