package animalcache_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/animalcache"
)

func TestLogger_BuildLine(t *testing.T) {
	var buf bytes.Buffer
	logger := animalcache.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	c := newCache(t, newGatedSource(shelterRecords()...), animalcache.WithLogger(logger))

	_, err := c.Initialize(context.Background())
	require.NoError(t, err)

	var line string
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.Contains(l, "cache build completed") {
			line = l
		}
	}
	require.NotEmpty(t, line)
	assert.Equal(t, 1, strings.Count(line, `"generation":`))

	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &fields))
	assert.EqualValues(t, 1, fields["generation"])
	assert.EqualValues(t, 5, fields["records"])
	assert.EqualValues(t, 4, fields["categories"])
	assert.EqualValues(t, 4, fields["names"])
}
