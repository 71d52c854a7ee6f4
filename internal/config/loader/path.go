package loader

import "strings"

// SplitPath splits a dot-separated setting path, dropping empty segments.
func SplitPath(path string) []string {
	parts := strings.Split(path, ".")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetPath retrieves a value from a nested map using a dot-separated path.
func GetPath(data map[string]any, path string) (any, bool) {
	parts := SplitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(data)
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetPath sets a value in a nested map using a dot-separated path,
// creating intermediate maps. A non-map value on the way is replaced.
// It returns false for an empty path.
func SetPath(data map[string]any, path string, value any) bool {
	parts := SplitPath(path)
	if len(parts) == 0 {
		return false
	}

	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
	return true
}

// DeletePath removes the value at path. Missing paths are ignored.
func DeletePath(data map[string]any, path string) {
	parts := SplitPath(path)
	if len(parts) == 0 {
		return
	}

	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			return
		}
		current = next
	}
	delete(current, parts[len(parts)-1])
}
