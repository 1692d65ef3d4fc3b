package templates

import (
	"fmt"
	"strings"
)

// numbered joins format rendered for 1..count. Inside format %[1]d is the
// 1-based position and %[2]d the 0-based one.
func numbered(format string, count int) string {
	var sb strings.Builder
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&sb, format, i, i-1)
		if i < count {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}
