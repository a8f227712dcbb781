package htmlutil

import (
	"strings"
	"testing"
)

func TestToText(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		contains []string
		excludes []string
	}{
		{
			name:     "strips tags",
			html:     "<div><p>Clear sky</p></div>",
			contains: []string{"Clear sky"},
			excludes: []string{"<", ">"},
		},
		{
			name:     "decodes entities",
			html:     "<p>Cloud &amp; Rain</p>",
			contains: []string{"Cloud & Rain"},
			excludes: []string{"&amp;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToText(tt.html)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("ToText(%q) = %q, missing %q", tt.html, got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("ToText(%q) = %q, should not contain %q", tt.html, got, bad)
				}
			}
		})
	}
}

func TestToText_CollapsesBlankLines(t *testing.T) {
	got := ToText("<p>one</p>\n\n\n<br><br><br><p>two</p>")
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("ToText left consecutive blank lines: %q", got)
	}
	if strings.HasPrefix(got, "\n") || strings.HasSuffix(got, "\n") {
		t.Errorf("ToText did not trim: %q", got)
	}
}
