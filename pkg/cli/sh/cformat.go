package sh

import (
	"fmt"
	"strings"
)

// VectorToC formats values as a C initializer, e.g. {  1,  2,  3}, to
// paste received data into firmware tests.
func VectorToC(values []int64) string {
	var w strings.Builder
	w.WriteByte('{')
	for n, val := range values {
		if n > 0 {
			w.WriteByte(',')
		}
		fmt.Fprintf(&w, "%3d", val)
	}
	w.WriteByte('}')
	return w.String()
}

// MatrixToC formats values as a C initializer of rows with cols
// elements. A trailing partial row is kept.
func MatrixToC(values []int64, cols int) string {
	if cols <= 0 || len(values) <= cols {
		return VectorToC(values)
	}
	rows := make([]string, 0, (len(values)+cols-1)/cols)
	for start := 0; start < len(values); start += cols {
		end := start + cols
		if end > len(values) {
			end = len(values)
		}
		rows = append(rows, "  "+VectorToC(values[start:end]))
	}
	return "{ \n" + strings.Join(rows, ",\n") + "\n}"
}
