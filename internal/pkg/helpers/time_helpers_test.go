package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 168*time.Hour, ParseDuration("168h", time.Hour))
	assert.Equal(t, 10*time.Minute, ParseDuration("10m", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("a week", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("", time.Hour))
}
