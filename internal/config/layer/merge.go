package layer

import "strings"

// DeepMerge merges src into dst and returns dst. Nested maps merge key by
// key; any other src value replaces the dst value.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, sv := range src {
		sm, srcIsMap := sv.(map[string]any)
		dm, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dm, sm)
			continue
		}
		dst[key] = cloneValue(sv)
	}
	return dst
}

// Clone returns a deep copy of a settings map.
func Clone(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = cloneValue(v)
	}
	return dst
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return Clone(v)
	case []any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = cloneValue(v[i])
		}
		return out
	default:
		return v
	}
}

// GetByPath looks up a dot-separated path such as "editor.direction".
func GetByPath(data map[string]any, path string) (any, bool) {
	var cur any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// SetByPath sets a value at a dot-separated path, creating intermediate
// maps and replacing non-map values in the way.
func SetByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	cur := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}
