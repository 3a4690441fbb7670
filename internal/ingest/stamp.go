package ingest

import (
	"fmt"
	"os"
	"strings"
)

// Stamp summarizes the size and modification time of a set of files. Two
// equal stamps mean no file needs to be decoded again.
type Stamp string

// StampFiles stats every path.
func StampFiles(paths []string) (Stamp, error) {
	var b strings.Builder
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("stat data file: %w", err)
		}
		fmt.Fprintf(&b, "%s:%d:%d;", path, info.Size(), info.ModTime().UnixNano())
	}
	return Stamp(b.String()), nil
}
