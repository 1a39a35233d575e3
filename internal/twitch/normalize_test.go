package twitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLogin(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gaules", "gaules"},
		{"GAULES", "gaules"},
		{"  Gaules  ", "gaules"},
		{"@gaules", "gaules"},
		{"https://twitch.tv/gaules", "gaules"},
		{"https://www.twitch.tv/Gaules", "gaules"},
		{"http://twitch.tv/gaules/", "gaules"},
		{"www.twitch.tv/gaules?ref=home", "gaules"},
		{"twitch.tv/gaules", "gaules"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLogin(tt.in), "input %q", tt.in)
	}
}
