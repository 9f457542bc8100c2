// Package settings holds the persisted display preferences.
package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Window states as stored.
const (
	WindowNormal    = 0
	WindowMinimized = 1
	WindowMaximized = 2
)

// Settings is a flat record of UI preferences stored next to the entries.
type Settings struct {
	IsRtl              bool    `json:"isRtl"`
	FontFamily         string  `json:"fontFamily"`
	FontSize           float64 `json:"fontSize"`
	LineSpacing        float64 `json:"lineSpacing"`
	BackgroundColor    string  `json:"backgroundColor"`
	AppTitle           string  `json:"appTitle"`
	WindowTop          float64 `json:"windowTop"`
	WindowLeft         float64 `json:"windowLeft"`
	WindowWidth        float64 `json:"windowWidth"`
	WindowHeight       float64 `json:"windowHeight"`
	WindowState        int     `json:"windowState"`
	MinimizeToTray     bool    `json:"minimizeToTray"`
	DefaultHeaderColor string  `json:"defaultHeaderColor"`
}

func Default() Settings {
	return Settings{
		FontFamily:         "Segoe UI",
		FontSize:           16,
		LineSpacing:        12,
		BackgroundColor:    "#1E1E1E",
		AppTitle:           "jot",
		WindowTop:          100,
		WindowLeft:         100,
		WindowWidth:        450,
		WindowHeight:       800,
		WindowState:        WindowNormal,
		DefaultHeaderColor: "#FFFFFF",
	}
}

// ValidColor reports whether s is #RRGGBB or #AARRGGBB.
func ValidColor(s string) bool {
	if (len(s) != 7 && len(s) != 9) || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !isHex(r) {
			return false
		}
	}
	_, err := colorful.Hex("#" + s[len(s)-6:])
	return err == nil
}

func isHex(r rune) bool {
	return '0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

// RGB drops the alpha channel of an #AARRGGBB color so it can be shown on a
// terminal. Other values are returned unchanged.
func RGB(s string) string {
	if len(s) == 9 && strings.HasPrefix(s, "#") {
		return "#" + s[3:]
	}
	return s
}

// Normalize replaces invalid colors and out-of-range values with defaults.
func (s *Settings) Normalize() {
	def := Default()
	if !ValidColor(s.BackgroundColor) {
		s.BackgroundColor = def.BackgroundColor
	}
	if !ValidColor(s.DefaultHeaderColor) {
		s.DefaultHeaderColor = def.DefaultHeaderColor
	}
	if s.FontFamily == "" {
		s.FontFamily = def.FontFamily
	}
	if s.FontSize <= 0 {
		s.FontSize = def.FontSize
	}
	if s.LineSpacing < 0 {
		s.LineSpacing = def.LineSpacing
	}
	if s.WindowState < WindowNormal || s.WindowState > WindowMaximized {
		s.WindowState = WindowNormal
	}
}

type field struct {
	get func(s *Settings) string
	set func(s *Settings, v string) error
}

func parseFloat(v string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}

func colorSetter(dst func(s *Settings) *string) func(s *Settings, v string) error {
	return func(s *Settings, v string) error {
		v = strings.ToUpper(strings.TrimSpace(v))
		if !ValidColor(v) {
			return fmt.Errorf("settings: %q is not a #RRGGBB or #AARRGGBB color", v)
		}
		*dst(s) = v
		return nil
	}
}

func floatField(dst func(s *Settings) *float64, min float64) field {
	return field{
		get: func(s *Settings) string { return strconv.FormatFloat(*dst(s), 'f', -1, 64) },
		set: func(s *Settings, v string) error {
			f, err := parseFloat(v)
			if err != nil {
				return fmt.Errorf("settings: %q is not a number", v)
			}
			if f < min {
				return fmt.Errorf("settings: %v is below the minimum %v", f, min)
			}
			*dst(s) = f
			return nil
		},
	}
}

func boolField(dst func(s *Settings) *bool) field {
	return field{
		get: func(s *Settings) string { return strconv.FormatBool(*dst(s)) },
		set: func(s *Settings, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("settings: %q is not a boolean", v)
			}
			*dst(s) = b
			return nil
		},
	}
}

func stringField(dst func(s *Settings) *string) field {
	return field{
		get: func(s *Settings) string { return *dst(s) },
		set: func(s *Settings, v string) error {
			*dst(s) = v
			return nil
		},
	}
}

var fields = map[string]field{
	"isRtl":          boolField(func(s *Settings) *bool { return &s.IsRtl }),
	"minimizeToTray": boolField(func(s *Settings) *bool { return &s.MinimizeToTray }),
	"fontFamily":     stringField(func(s *Settings) *string { return &s.FontFamily }),
	"appTitle":       stringField(func(s *Settings) *string { return &s.AppTitle }),
	"fontSize":       floatField(func(s *Settings) *float64 { return &s.FontSize }, 1),
	"lineSpacing":    floatField(func(s *Settings) *float64 { return &s.LineSpacing }, 0),
	"windowTop":      floatField(func(s *Settings) *float64 { return &s.WindowTop }, -1e6),
	"windowLeft":     floatField(func(s *Settings) *float64 { return &s.WindowLeft }, -1e6),
	"windowWidth":    floatField(func(s *Settings) *float64 { return &s.WindowWidth }, 0),
	"windowHeight":   floatField(func(s *Settings) *float64 { return &s.WindowHeight }, 0),
	"backgroundColor": {
		get: func(s *Settings) string { return s.BackgroundColor },
		set: colorSetter(func(s *Settings) *string { return &s.BackgroundColor }),
	},
	"defaultHeaderColor": {
		get: func(s *Settings) string { return s.DefaultHeaderColor },
		set: colorSetter(func(s *Settings) *string { return &s.DefaultHeaderColor }),
	},
	"windowState": {
		get: func(s *Settings) string { return strconv.Itoa(s.WindowState) },
		set: func(s *Settings, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < WindowNormal || n > WindowMaximized {
				return fmt.Errorf("settings: window state must be 0, 1 or 2, got %q", v)
			}
			s.WindowState = n
			return nil
		},
	},
}

func lookup(key string) (field, string, error) {
	for name, f := range fields {
		if strings.EqualFold(name, key) {
			return f, name, nil
		}
	}
	return field{}, "", fmt.Errorf("settings: unknown key %q", key)
}

// Keys lists the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key formatted as text.
func (s *Settings) Get(key string) (string, error) {
	f, _, err := lookup(key)
	if err != nil {
		return "", err
	}
	return f.get(s), nil
}

// Set parses v and assigns it to key. On error s is unchanged.
func (s *Settings) Set(key, v string) error {
	f, _, err := lookup(key)
	if err != nil {
		return err
	}
	return f.set(s, v)
}
