package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/inkwell/internal/dispatcher/action"
)

// Keymap binds normalized key names to actions.
//
// Key names are lowercase, with modifiers first in the order ctrl, alt,
// shift: "ctrl+b", "alt+1", "shift+f3".
type Keymap map[string]action.Action

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		"ctrl+b": action.Bold,
		"alt+i":  action.Italic,
		"ctrl+u": action.Underline,
		"alt+1":  action.Heading1,
		"alt+2":  action.Heading2,
		"alt+0":  action.Paragraph,
		"alt+u":  action.UnorderedList,
		"alt+o":  action.OrderedList,
		"alt+l":  action.AlignLeft,
		"alt+e":  action.AlignCenter,
		"alt+r":  action.AlignRight,
		"ctrl+k": action.Link,
		"alt+g":  action.Image,
		"alt+c":  action.Code,
		"ctrl+z": action.Undo,
		"ctrl+y": action.Redo,
	}
}

var modifierOrder = []string{"ctrl", "alt", "shift"}

// NormalizeKey returns the canonical form of a key name.
func NormalizeKey(key string) (string, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(key)), "+")
	name := strings.TrimSpace(parts[len(parts)-1])
	if name == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	var mods []string
	for _, m := range parts[:len(parts)-1] {
		m = strings.TrimSpace(m)
		if m == "control" {
			m = "ctrl"
		}
		if !slices.Contains(modifierOrder, m) {
			return "", fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidKey, m, key)
		}
		if !slices.Contains(mods, m) {
			mods = append(mods, m)
		}
	}
	slices.SortFunc(mods, func(a, b string) int {
		return slices.Index(modifierOrder, a) - slices.Index(modifierOrder, b)
	})
	return strings.Join(append(mods, name), "+"), nil
}

// ParseKeymap applies overrides to the default keymap. An override value
// of "none" or "" removes the binding.
func ParseKeymap(overrides map[string]string) (Keymap, error) {
	km := DefaultKeymap()
	for key, name := range overrides {
		norm, err := NormalizeKey(key)
		if err != nil {
			return nil, &ValidationError{Path: "keys", Value: key, Message: err.Error(), Err: ErrInvalidKey}
		}
		name = strings.TrimSpace(name)
		if name == "" || strings.EqualFold(name, "none") {
			delete(km, norm)
			continue
		}
		a, err := action.Parse(name)
		if err != nil {
			return nil, &ValidationError{Path: "keys." + norm, Value: name, Message: "unknown action", Err: err}
		}
		km[norm] = a
	}
	return km, nil
}

// Lookup returns the action bound to key.
func (k Keymap) Lookup(key string) (action.Action, bool) {
	norm, err := NormalizeKey(key)
	if err != nil {
		return action.None, false
	}
	a, ok := k[norm]
	return a, ok
}

// KeysFor returns the keys bound to a, sorted.
func (k Keymap) KeysFor(a action.Action) []string {
	var keys []string
	for key, bound := range k {
		if bound == a {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}
