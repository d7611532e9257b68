// Package layer stacks configuration sources by precedence.
//
// Each source (built-in defaults, a config file, the environment, command
// line flags) contributes one Layer of nested values. A Stack merges them
// with later sources overriding earlier ones and can report which source
// supplied a setting.
package layer

import (
	"slices"
	"sync"
)

// Source identifies where a layer came from. Sources are ordered by
// precedence: a higher source overrides a lower one.
type Source uint8

const (
	SourceDefaults Source = iota
	SourceFile
	SourceEnv
	SourceFlags
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceDefaults:
		return "defaults"
	case SourceFile:
		return "file"
	case SourceEnv:
		return "environment"
	case SourceFlags:
		return "flags"
	default:
		return "unknown"
	}
}

// Layer is one source of settings.
type Layer struct {
	Source Source

	// Path is the file a SourceFile layer was read from.
	Path string

	Data map[string]any
}

// New creates a layer holding a copy of data.
func New(source Source, data map[string]any) *Layer {
	return &Layer{Source: source, Data: Clone(data)}
}

// Stack merges layers by source precedence.
type Stack struct {
	mu     sync.RWMutex
	layers []*Layer
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Put adds l, replacing any layer from the same source.
func (s *Stack) Put(l *Layer) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.layers = slices.DeleteFunc(s.layers, func(x *Layer) bool { return x.Source == l.Source })
	s.layers = append(s.layers, l)
	slices.SortStableFunc(s.layers, func(a, b *Layer) int { return int(a.Source) - int(b.Source) })
}

// Remove drops the layer from source. It reports whether one existed.
func (s *Stack) Remove(source Source) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.layers)
	s.layers = slices.DeleteFunc(s.layers, func(x *Layer) bool { return x.Source == source })
	return len(s.layers) != n
}

// Layer returns the layer from source, or nil.
func (s *Stack) Layer(source Source) *Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.layers {
		if l.Source == source {
			return l
		}
	}
	return nil
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.layers)
}

// Merge returns all layers merged into a fresh map.
func (s *Stack) Merge() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any)
	for _, l := range s.layers {
		out = DeepMerge(out, l.Data)
	}
	return out
}

// Get returns the effective value at a dotted path and the source that
// supplied it.
func (s *Stack) Get(path string) (any, Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.layers) - 1; i >= 0; i-- {
		if v, ok := GetByPath(s.layers[i].Data, path); ok {
			return v, s.layers[i].Source, true
		}
	}
	return nil, 0, false
}
