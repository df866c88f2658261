package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBusinessRange(t *testing.T) {
	// 17:30 UTC on May 4 is already May 5 in Manila.
	now := time.Date(2026, 5, 4, 17, 30, 0, 0, time.UTC)

	from, to := businessRange("", "", now, "Asia/Manila")
	assert.Equal(t, "2026-05-05", from)
	assert.Equal(t, "2026-05-05", to)

	from, to = businessRange("2026-05-01", "", now, "Asia/Manila")
	assert.Equal(t, "2026-05-01", from)
	assert.Equal(t, "2026-05-05", to)
}
