package display

import (
	"fmt"
	"strings"
)

// Keymap binds printable keys to commands; Esc and Ctrl-C always quit
type Keymap map[rune]Command

// Rune aliases for keys that can't be bare single-char TOML keys
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
}

// DefaultKeymap returns the built-in bindings
func DefaultKeymap() Keymap {
	return Keymap{
		'q': CommandQuit,
		' ': CommandPause,
		'n': CommandNext,
		'e': CommandExport,
	}
}

// ParseKeymap applies key → command name overrides on top of DefaultKeymap
// The command name "none" removes a default binding
func ParseKeymap(overrides map[string]string) (Keymap, error) {
	km := DefaultKeymap()
	for keyStr, name := range overrides {
		r, err := resolveRune(keyStr)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", keyStr, err)
		}

		name = strings.ToLower(strings.TrimSpace(name))
		if name == "none" {
			delete(km, r)
			continue
		}
		c, ok := commandByName(name)
		if !ok {
			return nil, fmt.Errorf("key %q: unknown command: %q", keyStr, name)
		}
		km[r] = c
	}
	return km, nil
}

// resolveRune converts a TOML key string to a rune
// Accepts single characters and named aliases
func resolveRune(s string) (rune, error) {
	if r, ok := runeAliases[strings.ToLower(s)]; ok {
		return r, nil
	}

	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], nil
	}

	return 0, fmt.Errorf("invalid rune key: %q (expected single character or alias)", s)
}

func commandByName(name string) (Command, bool) {
	for _, c := range []Command{CommandQuit, CommandPause, CommandNext, CommandExport} {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}
