package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	kr := &KeyboardReader{}

	tests := []struct {
		name     string
		input    []byte
		expected *KeyEvent
	}{
		{"plain char", []byte{'q'}, &KeyEvent{Key: 'q', Type: KeyChar}},
		{"ctrl+c", []byte{3}, &KeyEvent{Key: 3, Type: KeyChar}},
		{"carriage return", []byte{'\r'}, &KeyEvent{Type: KeyEnter}},
		{"newline", []byte{'\n'}, &KeyEvent{Type: KeyEnter}},
		{"bare escape", []byte{27}, &KeyEvent{Key: 27, Type: KeyEscape}},
		{"arrow up", []byte{27, '[', 'A'}, &KeyEvent{Type: KeyUp}},
		{"arrow down", []byte{27, '[', 'B'}, &KeyEvent{Type: KeyDown}},
		{"arrow right", []byte{27, '[', 'C'}, &KeyEvent{Type: KeyRight}},
		{"arrow left", []byte{27, '[', 'D'}, &KeyEvent{Type: KeyLeft}},
		{"unknown escape sequence", []byte{27, '[', 'Z'}, nil},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := kr.parseInput(tt.input)
			if tt.expected == nil {
				assert.Nil(t, event)
				return
			}
			require.NotNil(t, event)
			assert.Equal(t, *tt.expected, *event)
		})
	}
}
