package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "Past due", FormatDuration(-time.Minute))
	assert.Equal(t, "45 minutes", FormatDuration(45*time.Minute))
	assert.Equal(t, "3 hours, 20 minutes", FormatDuration(3*time.Hour+20*time.Minute))
	assert.Equal(t, "2 days, 5 hours", FormatDuration(53*time.Hour))
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "250.00µs", FormatElapsed(250*time.Microsecond))
	assert.Equal(t, "12.00ms", FormatElapsed(12*time.Millisecond))
	assert.Equal(t, "2.50s", FormatElapsed(2500*time.Millisecond))
	assert.Equal(t, "1m30s", FormatElapsed(90*time.Second))
}
