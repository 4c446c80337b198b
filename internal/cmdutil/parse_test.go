package cmdutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseCommand(t *testing.T) {
	tests := []struct {
		cmd      string
		expected string
	}{
		{"git status", "git"},
		{"  ls   -la  ", "ls"},
		{"make", "make"},
		{"\tdocker\tps", "docker"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, BaseCommand(tt.cmd), "BaseCommand(%q)", tt.cmd)
	}
}

func TestCountPipes(t *testing.T) {
	tests := []struct {
		cmd      string
		expected int
	}{
		{"ls", 0},
		{"ls | grep foo", 1},
		{"cat file | grep pattern | wc -l", 2},
		{"echo '|' | cat", 1},    // pipe in quotes doesn't count
		{`echo "|" | cat`, 1},    // double quotes
		{`echo "a|b|c" | wc`, 1}, // multiple pipes in quotes
		{"ls |grep|wc", 2},       // no spaces
		{"", 0},
		{"echo 'test | more' | less", 1}, // one real pipe, one in quotes
	}

	for _, tt := range tests {
		result := CountPipes(tt.cmd)
		if result != tt.expected {
			t.Errorf("CountPipes(%q) = %v, want %v", tt.cmd, result, tt.expected)
		}
	}
}

func TestCountFlags(t *testing.T) {
	tests := []struct {
		cmd      string
		expected int
	}{
		{"ls", 0},
		{"ls -la", 1},
		{"git commit -m 'a -b message'", 1}, // quoted text is one word
		{"rsync -avz --delete src/ dst/", 2},
		{"cat - --", 0},
		{"echo 'unbalanced -x", 1}, // shlex fails, falls back to fields
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CountFlags(tt.cmd), "CountFlags(%q)", tt.cmd)
	}
}

func TestCountSpecialChars(t *testing.T) {
	tests := []struct {
		cmd      string
		expected int
	}{
		{"ls -la", 0},
		{"ls | grep foo", 1},
		{`echo "$HOME"`, 3},
		{"find . -name '*.go' | xargs wc -l > out.txt", 5},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CountSpecialChars(tt.cmd), "CountSpecialChars(%q)", tt.cmd)
	}
}
