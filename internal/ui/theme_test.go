package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lakshaymaurya-felt/sweeper/internal/rules"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "…Temp", Truncate(`C:\Users\me\AppData\Local\Temp`, 5))
	assert.Equal(t, "…émoi", Truncate("aaaaaémoi", 5))
}

func TestSeverityColor(t *testing.T) {
	assert.Equal(t, ColorSuccess, SeverityColor(rules.Safe))
	assert.Equal(t, ColorWarning, SeverityColor(rules.Moderate))
	assert.Equal(t, ColorError, SeverityColor(rules.Aggressive))
}
