package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"station-ops-bot/internal/entry/usecase"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"single", "  Spent 5000 on lunch  ", []string{"Spent 5000 on lunch"}},
		{"two", "Spent 5000 on lunch; Hilux used 40 liters", []string{"Spent 5000 on lunch", "Hilux used 40 liters"}},
		{"empty pieces dropped", ";a;; b ;", []string{"a", "b"}},
		{"only separators", " ; ; ", []string{}},
		{"empty", "   ", nil},
		{"newlines kept inside segment", "fix pump\nurgently", []string{"fix pump\nurgently"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := usecase.Segment(tt.raw)
			assert.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i], got[i])
			}
		})
	}
}
