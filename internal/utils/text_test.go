package utils

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestHumanize(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"data_analysis", "Data Analysis"},
		{"", ""},
		{"  chain_of_thought ", "Chain Of Thought"},
		{"éducation_ñandu", "Éducation Ñandu"},
		{"über_planung", "Über Planung"},
		{"customer_API_review", "Customer API Review"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			t.Parallel()
			got := Humanize(tt.label)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
