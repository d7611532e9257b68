package topic

import "strings"

// Topic is a hierarchical event name using dot notation.
type Topic string

// Wildcard constants for pattern matching.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	// Separator separates topic segments.
	Separator = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Parent returns the topic without its last segment, or "" at the top.
//
// Example: "content.changed" -> "content"
func (t Topic) Parent() Topic {
	idx := strings.LastIndex(string(t), Separator)
	if idx < 0 {
		return ""
	}
	return t[:idx]
}

// Child appends a segment.
func (t Topic) Child(segment string) Topic {
	if t == "" {
		return Topic(segment)
	}
	return t + Separator + Topic(segment)
}

// Base returns the last segment.
func (t Topic) Base() string {
	s := string(t)
	return s[strings.LastIndex(s, Separator)+1:]
}

// IsWildcard reports whether the topic is a pattern.
func (t Topic) IsWildcard() bool {
	return strings.Contains(string(t), WildcardSingle)
}

// IsValid returns true for a non-empty topic without empty segments.
func (t Topic) IsValid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

// Matches returns true if this topic matches pattern.
func (t Topic) Matches(pattern Topic) bool {
	if t == pattern {
		return true
	}
	return matchSegments(t.Segments(), pattern.Segments())
}

func matchSegments(topic, pattern []string) bool {
	ti, pi := 0, 0

	for pi < len(pattern) {
		if pattern[pi] == WildcardMulti {
			// try every possible tail
			for ; ti <= len(topic); ti++ {
				if matchSegments(topic[ti:], pattern[pi+1:]) {
					return true
				}
			}
			return false
		}

		if ti >= len(topic) {
			return false
		}
		if pattern[pi] != WildcardSingle && pattern[pi] != topic[ti] {
			return false
		}
		ti++
		pi++
	}

	return ti == len(topic)
}

// Join joins segments into a topic.
func Join(segments ...string) Topic {
	return Topic(strings.Join(segments, Separator))
}
