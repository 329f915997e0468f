// Package stacktrace trims runtime stacks down to this module's frames.
package stacktrace

import "strings"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for every frame of
// stack that lives under an internal/ directory.
func InternalPaths(stack []byte) []string {
	var paths []string
	for line := range strings.Lines(string(stack)) {
		line = strings.TrimSpace(line)

		file, _, _ := strings.Cut(line, " ")
		if !strings.Contains(file, ".go:") {
			continue
		}

		if i := strings.Index(file, "/internal/"); i != -1 {
			paths = append(paths, file[i+1:])
		}
	}

	return paths
}
