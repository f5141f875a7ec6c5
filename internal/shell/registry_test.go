package shell

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	names := reg.Names()

	assert.True(t, sort.StringsAreSorted(names))
	assert.GreaterOrEqual(t, len(names), 60)

	for _, name := range []string{".tables", ".schema", ".dump", ".mode", ".headers", ".import", ".backup", ".quit"} {
		c, ok := reg.Lookup(name)
		require.True(t, ok, name)
		assert.True(t, c.Supported, name)
		assert.NotNil(t, c.Run, name)
		assert.NotEmpty(t, c.Help, name)
	}

	c, ok := reg.Lookup("load")
	require.True(t, ok)
	assert.False(t, c.Supported)

	_, ok = reg.Lookup(".nope")
	assert.False(t, ok)
}

func TestRegistry_Register(t *testing.T) {
	called := false
	reg := NewRegistry(&Command{Name: ".hello", Args: "NAME", Run: func(context.Context, *Shell, []string) error {
		called = true
		return nil
	}})

	c, ok := reg.Lookup("hello")
	require.True(t, ok)
	assert.Equal(t, ".hello NAME", c.Usage())

	ts := newTestShell(t)
	sh := NewShell(ts.Session, reg)
	require.NoError(t, sh.Execute(context.Background(), ".hello world"))
	assert.True(t, called)

	var unknown *UnknownCommandError
	assert.ErrorAs(t, sh.Execute(context.Background(), ".tables"), &unknown)
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"on", "ON", "yes", "true", "1"} {
		v, err := parseBool(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"off", "no", "False", "0"} {
		v, err := parseBool(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	_, err := parseBool("maybe")
	assert.Error(t, err)
}

func TestUnescape(t *testing.T) {
	assert.Equal(t, "\t", unescape(`\t`))
	assert.Equal(t, "a\nb", unescape(`a\nb`))
	assert.Equal(t, `say "hi"`, unescape(`say "hi"`))
	assert.Equal(t, `bad\q`, unescape(`bad\q`))
}
