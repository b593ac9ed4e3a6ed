package threat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		trapType string
		want     Level
	}{
		{"admin", LevelHigh},
		{"env", LevelHigh},
		{"sql", LevelHigh},
		{"api", LevelMedium},
		{"hidden-link", LevelMedium},
		{"anything-unrecognized", LevelLow},
		{"", LevelLow},
	}

	for _, tt := range tests {
		t.Run(tt.trapType, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.trapType))
		})
	}
}
