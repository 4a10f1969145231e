// Package stacktrace trims raw goroutine stacks down to project frames.
package stacktrace

import "strings"

// InternalPaths returns the "internal/...go:line" locations found in a raw
// stack trace, in call order.
func InternalPaths(stack []byte) []string {
	var paths []string
	for line := range strings.Lines(string(stack)) {
		line = strings.TrimSpace(line)

		idx := strings.Index(line, "/internal/")
		if idx == -1 || !strings.Contains(line, ".go:") {
			continue
		}

		loc, _, _ := strings.Cut(line[idx+1:], " ")
		paths = append(paths, loc)
	}

	return paths
}
