package utils

import (
	"io"
	"strings"
)

// CloseQuietly closes v and ignores the error
func CloseQuietly(v io.Closer) {
	_ = v.Close()
}

// Dedent removes the common leading indentation of every non-blank line,
// and trims the leading and trailing blank lines.
//
// useful for multi-line help text written inside indented code.
func Dedent(v string) string {
	lines := strings.Split(v, "\n")
	for len(lines) != 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) != 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent == -1 || n < indent {
			indent = n
		}
	}

	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}

	return strings.Join(lines, "\n")
}
