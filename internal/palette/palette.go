// Package palette provides the line and pen colours used by the transforms.
package palette

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/samber/lo"
)

// ErrUnknownColor is returned for a colour that is neither a known name nor a
// #RRGGBB hex string.
var ErrUnknownColor = errors.New("unknown color")

// Color is a named colour.
type Color struct {
	Name  string
	Value colorful.Color
}

// String returns the name, or the hex value for unnamed colours.
func (c Color) String() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Value.Hex()
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

var named = map[string]Color{
	"r":     {Name: "red", Value: mustHex("#FF0000")},
	"red":   {Name: "red", Value: mustHex("#FF0000")},
	"b":     {Name: "blue", Value: mustHex("#0000FF")},
	"blue":  {Name: "blue", Value: mustHex("#0000FF")},
	"k":     {Name: "black", Value: mustHex("#000000")},
	"black": {Name: "black", Value: mustHex("#000000")},
}

// DefaultLineColors is the pool lines are drawn from when none are given.
var DefaultLineColors = []Color{named["r"], named["b"], named["k"]}

// Pen is an ink colour for recolouring handwriting. A Pen with Keep set leaves
// black ink untouched.
type Pen struct {
	Name  string
	Value colorful.Color
	Keep  bool
}

// Pens are the ink colours handwriting can be recoloured to.
var Pens = []Pen{
	{Name: "red", Value: mustHex("#EF0000")},
	{Name: "black", Keep: true},
	{Name: "blue", Value: mustHex("#2222B7")},
	{Name: "pencil", Value: mustHex("#696969")},
}

// Parse resolves a colour name (r, b, k, red, blue, black) or a #RRGGBB hex.
func Parse(s string) (Color, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[key]; ok {
		return c, nil
	}
	if strings.HasPrefix(key, "#") {
		v, err := colorful.Hex(key)
		if err != nil {
			return Color{}, fmt.Errorf("%w %q: %v", ErrUnknownColor, s, err)
		}
		return Color{Value: v}, nil
	}
	return Color{}, fmt.Errorf("%w %q (want r, b, k, red, blue, black or #RRGGBB)", ErrUnknownColor, s)
}

// configPath returns the path to the user's custom line colour file.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".papersynth", "colors.txt"), nil
}

// LoadCustomColors reads line colours from ~/.papersynth/colors.txt, one per
// line. Lines starting with # are comments, so hex values are written without
// their leading "#". Returns nil if the file does not exist.
func LoadCustomColors() ([]string, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return loadColorFile(path)
}

func loadColorFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open colors file: %w", err)
	}
	defer f.Close()

	var colors []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := named[strings.ToLower(line)]; !ok {
			line = "#" + line
		}
		colors = append(colors, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading colors file: %w", err)
	}
	return colors, nil
}

// Resolve returns the line colour pool to draw from.
// Priority: CLI flag > custom file > defaults.
func Resolve(cli []string) ([]Color, error) {
	names := lo.Filter(
		lo.Map(cli, func(s string, _ int) string { return strings.TrimSpace(s) }),
		func(s string, _ int) bool { return s != "" },
	)
	if len(names) == 0 {
		custom, err := LoadCustomColors()
		if err != nil {
			return nil, err
		}
		names = custom
	}
	if len(names) == 0 {
		return DefaultLineColors, nil
	}

	colors := make([]Color, 0, len(names))
	for _, n := range names {
		c, err := Parse(n)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, nil
}
