package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMode("boxed")
	require.NoError(t, err)
	assert.Equal(t, Box, got)

	got, err = ParseMode("CSV")
	require.NoError(t, err)
	assert.Equal(t, CSV, got)
}

func TestParseMode_Unknown(t *testing.T) {
	_, err := ParseMode("badname")
	require.Error(t, err)

	var unknown *UnknownModeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "badname", unknown.Name)
	assert.Contains(t, err.Error(), "markdown")
}

func TestModes(t *testing.T) {
	assert.Len(t, Modes(), 14)
	assert.True(t, CSV.Delimited())
	assert.True(t, Tabs.Delimited())
	assert.True(t, List.Delimited())
	assert.False(t, Box.Delimited())
}
