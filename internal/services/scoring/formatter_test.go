package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/bowlscore/internal/model"
)

func TestFormatFrame(t *testing.T) {
	tests := []struct {
		name     string
		frame    model.Frame
		expected string
	}{
		{name: "unplayed", frame: frame(1), expected: "-"},
		{name: "strike", frame: frame(3, 10), expected: "X"},
		{name: "first throw only", frame: frame(2, 7), expected: "7 -"},
		{name: "spare", frame: frame(5, 6, 4), expected: "6 /"},
		{name: "gutter then ten is a spare", frame: frame(4, 0, 10), expected: "0 /"},
		{name: "open frame", frame: frame(9, 8, 1), expected: "8 1"},
		{name: "double gutter", frame: frame(6, 0, 0), expected: "0 0"},
		{name: "tenth unplayed", frame: frame(10), expected: "- - -"},
		{name: "tenth turkey", frame: frame(10, 10, 10, 10), expected: "X X X"},
		{name: "tenth strike then open rack", frame: frame(10, 10, 7, 2), expected: "X 7 2"},
		{name: "tenth strike then spare", frame: frame(10, 10, 7, 3), expected: "X 7 /"},
		{name: "tenth two strikes and count", frame: frame(10, 10, 10, 4), expected: "X X 4"},
		{name: "tenth spare then strike", frame: frame(10, 7, 3, 10), expected: "7 / X"},
		{name: "tenth spare then count", frame: frame(10, 7, 3, 7), expected: "7 / 7"},
		{name: "tenth gutter spare", frame: frame(10, 0, 10, 5), expected: "0 / 5"},
		{name: "tenth open", frame: frame(10, 4, 5), expected: "4 5 -"},
		{name: "tenth strike pending", frame: frame(10, 10), expected: "X - -"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatFrame(tt.frame))
		})
	}
}
