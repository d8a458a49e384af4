package models

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// LineHighlightRatio is the fraction of foreground blended into the
// background to derive a line-highlight color.
const LineHighlightRatio = 0.12

// ThemeColors holds every named color slot of a theme palette.
// Values are "#rrggbb" hex strings.
type ThemeColors struct {
	Background string `yaml:"background" json:"background"`
	Foreground string `yaml:"foreground" json:"foreground"`
	Cursor     string `yaml:"cursor" json:"cursor"`
	Selection  string `yaml:"selection" json:"selection"`
	Accent     string `yaml:"accent" json:"accent"`
	Border     string `yaml:"border" json:"border"`

	Black   string `yaml:"black" json:"black"`
	Red     string `yaml:"red" json:"red"`
	Green   string `yaml:"green" json:"green"`
	Yellow  string `yaml:"yellow" json:"yellow"`
	Blue    string `yaml:"blue" json:"blue"`
	Magenta string `yaml:"magenta" json:"magenta"`
	Cyan    string `yaml:"cyan" json:"cyan"`
	White   string `yaml:"white" json:"white"`

	BrightBlack   string `yaml:"bright_black" json:"bright_black"`
	BrightRed     string `yaml:"bright_red" json:"bright_red"`
	BrightGreen   string `yaml:"bright_green" json:"bright_green"`
	BrightYellow  string `yaml:"bright_yellow" json:"bright_yellow"`
	BrightBlue    string `yaml:"bright_blue" json:"bright_blue"`
	BrightMagenta string `yaml:"bright_magenta" json:"bright_magenta"`
	BrightCyan    string `yaml:"bright_cyan" json:"bright_cyan"`
	BrightWhite   string `yaml:"bright_white" json:"bright_white"`
}

// ColorSlot is a named palette entry.
type ColorSlot struct {
	Name  string
	Value string
}

// Slots returns all palette entries in a fixed order.
func (c ThemeColors) Slots() []ColorSlot {
	return []ColorSlot{
		{"background", c.Background},
		{"foreground", c.Foreground},
		{"cursor", c.Cursor},
		{"selection", c.Selection},
		{"accent", c.Accent},
		{"border", c.Border},
		{"black", c.Black},
		{"red", c.Red},
		{"green", c.Green},
		{"yellow", c.Yellow},
		{"blue", c.Blue},
		{"magenta", c.Magenta},
		{"cyan", c.Cyan},
		{"white", c.White},
		{"bright_black", c.BrightBlack},
		{"bright_red", c.BrightRed},
		{"bright_green", c.BrightGreen},
		{"bright_yellow", c.BrightYellow},
		{"bright_blue", c.BrightBlue},
		{"bright_magenta", c.BrightMagenta},
		{"bright_cyan", c.BrightCyan},
		{"bright_white", c.BrightWhite},
	}
}

// ANSI returns the 8 normal ANSI colors, black through white.
func (c ThemeColors) ANSI() [8]string {
	return [8]string{c.Black, c.Red, c.Green, c.Yellow, c.Blue, c.Magenta, c.Cyan, c.White}
}

// BrightANSI returns the 8 bright ANSI colors, black through white.
func (c ThemeColors) BrightANSI() [8]string {
	return [8]string{
		c.BrightBlack, c.BrightRed, c.BrightGreen, c.BrightYellow,
		c.BrightBlue, c.BrightMagenta, c.BrightCyan, c.BrightWhite,
	}
}

// Validate checks that every slot is present and a well-formed hex color.
func (c ThemeColors) Validate() error {
	var bad []string
	for _, slot := range c.Slots() {
		if slot.Value == "" {
			bad = append(bad, slot.Name+" (missing)")
			continue
		}
		if !IsHexColor(slot.Value) {
			bad = append(bad, fmt.Sprintf("%s (%q)", slot.Name, slot.Value))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidColors, strings.Join(bad, ", "))
	}
	return nil
}

// Normalized returns a copy with every slot lowercased.
func (c ThemeColors) Normalized() ThemeColors {
	n := c
	for _, p := range []*string{
		&n.Background, &n.Foreground, &n.Cursor, &n.Selection, &n.Accent, &n.Border,
		&n.Black, &n.Red, &n.Green, &n.Yellow, &n.Blue, &n.Magenta, &n.Cyan, &n.White,
		&n.BrightBlack, &n.BrightRed, &n.BrightGreen, &n.BrightYellow,
		&n.BrightBlue, &n.BrightMagenta, &n.BrightCyan, &n.BrightWhite,
	} {
		*p = strings.ToLower(*p)
	}
	return n
}

// LineHighlight derives the line-highlight color used by editors.
func (c ThemeColors) LineHighlight() string {
	return Blend(c.Background, c.Foreground, LineHighlightRatio)
}

// IsHexColor reports whether s is a "#rrggbb" color.
func IsHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := colorful.Hex(s)
	return err == nil
}

// Blend mixes t of "to" into "from" in RGB space and returns "#rrggbb".
// Unparseable input returns "from" unchanged.
func Blend(from, to string, t float64) string {
	a, err := colorful.Hex(from)
	if err != nil {
		return from
	}
	b, err := colorful.Hex(to)
	if err != nil {
		return from
	}
	return a.BlendRgb(b, t).Clamped().Hex()
}

// StripHash returns the color without its leading '#'.
func StripHash(hex string) string {
	return strings.TrimPrefix(hex, "#")
}

// IsLightColor reports whether a color's perceptual lightness is above half.
func IsLightColor(hex string) bool {
	c, err := colorful.Hex(hex)
	if err != nil {
		return false
	}
	l, _, _ := c.Lab()
	return l > 0.5
}
