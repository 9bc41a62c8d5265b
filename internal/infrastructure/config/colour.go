package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Colour is a "#rrggbb" or "#rrggbbaa" colour in config files.
type Colour struct {
	color.NRGBA
}

// UnmarshalYAML parses a hex colour string.
func (c *Colour) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("colour must be a string at line %d", value.Line)
	}

	s := strings.TrimPrefix(value.Value, "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid colour format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	var rgba [4]uint8
	rgba[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := parse(i * 2)
		if err != nil {
			return fmt.Errorf("invalid colour %s: %w", value.Value, err)
		}
		rgba[i] = v
	}

	c.NRGBA = color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	return nil
}

// MarshalYAML writes the colour back as hex.
func (c Colour) MarshalYAML() (any, error) {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), nil
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A), nil
}
