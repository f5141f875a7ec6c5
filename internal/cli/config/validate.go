package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlsh/internal/render"
	"github.com/leapstack-labs/sqlsh/pkg/adapter"
)

// Validate checks that the mode parses and the driver is registered.
func (c *Config) Validate() error {
	if _, err := render.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("invalid mode %q: valid modes are %s", c.Mode, strings.Join(render.ModeNames(), ", "))
	}
	_, err := adapter.Lookup(c.Driver)
	return err
}

// RenderMode returns the parsed output mode. Call after Validate.
func (c *Config) RenderMode() render.Mode {
	m, err := render.ParseMode(c.Mode)
	if err != nil {
		return render.Box
	}
	return m
}
