package stacktrace

import "strings"

// InternalFrames extracts the frames of a raw stack trace that point into this
// module's internal packages, shortened to "internal/...:<line>". It keeps
// panic logs readable instead of dumping the whole runtime stack.
func InternalFrames(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	frames := make([]string, 0, 8)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "/internal/") || !strings.Contains(line, ".go:") {
			continue
		}

		end := strings.Index(line, ".go:") + len(".go:")
		for end < len(line) && line[end] >= '0' && line[end] <= '9' {
			end++
		}

		frame := line[:end]
		if idx := strings.Index(frame, "/internal/"); idx != -1 {
			frames = append(frames, frame[idx+1:])
		}
	}

	return frames
}
