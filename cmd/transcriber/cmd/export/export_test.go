package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		flag, path, want string
	}{
		{"", "out.csv", "csv"},
		{"", "OUT.JSON", "json"},
		{"", "out.xlsx", "xlsx"},
		{"", "out.txt", "xlsx"},
		{"", "-", "xlsx"},
		{"CSV", "out.xlsx", "csv"},
	}

	for _, tt := range tests {
		t.Run(tt.flag+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveFormat(tt.flag, tt.path))
		})
	}
}
