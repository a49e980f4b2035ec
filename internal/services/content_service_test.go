package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Top 10 Places in Jaipur", "top-10-places-in-jaipur"},
		{"  Monsoon   Travel!  ", "monsoon-travel"},
		{"Café & Street Food", "caf-street-food"},
		{"already-a-slug", "already-a-slug"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, slugify(tt.title), tt.title)
	}
}
