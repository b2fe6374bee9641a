package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/traefik-replace/internal/model"
)

func TestScanPlaceholders(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []m.Placeholder
	}{
		{"no sigil", "entryPoints:\n  web: {}\n", nil},
		{"bare sigil", "cost: $ 5\n", nil},
		{"braced at offset zero", "${HOST}", []m.Placeholder{{Offset: 0, Length: 7, Name: "HOST"}}},
		{"bare name", "port=$PORT;", []m.Placeholder{{Offset: 5, Length: 5, Name: "PORT"}}},
		{
			"document order",
			`server = "${HOST}:${PORT}"`,
			[]m.Placeholder{
				{Offset: 10, Length: 7, Name: "HOST"},
				{Offset: 18, Length: 7, Name: "PORT"},
			},
		},
		{
			"adjacent placeholders do not overlap",
			"$A$B${C}",
			[]m.Placeholder{
				{Offset: 0, Length: 2, Name: "A"},
				{Offset: 2, Length: 2, Name: "B"},
				{Offset: 4, Length: 4, Name: "C"},
			},
		},
		{"unbalanced braces", "${HOST", []m.Placeholder{{Offset: 0, Length: 6, Name: "HOST"}}},
		{"digits and underscores", "$_1_A", []m.Placeholder{{Offset: 0, Length: 5, Name: "_1_A"}}},
		{"unicode letters", "host: ${HÖST}", []m.Placeholder{{Offset: 6, Length: 8, Name: "HÖST"}}},
		{"unicode digits and connectors", "$ПОРТ_٣", []m.Placeholder{{Offset: 0, Length: 12, Name: "ПОРТ_٣"}}},
		{"stops at punctuation", "$HOST-name", []m.Placeholder{{Offset: 0, Length: 5, Name: "HOST"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScanPlaceholders(tt.content)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ScanPlaceholders() mismatch (-want +got):\n%s", diff)
			}

			for _, p := range got {
				assert.Equal(t, byte('$'), tt.content[p.Offset])
			}
		})
	}
}
