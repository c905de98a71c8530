// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package idgen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 9, 7, 5, 0, time.UTC)

	assert.Equal(t, strings.ReplaceAll(now.Format("15:04:05"), ":", ""), maketime(now))

	id := MakeAt(now)
	assert.Len(t, id, 10)
	assert.True(t, strings.HasPrefix(id, "090705"), id)

	assert.Len(t, Make(), 10)
}
