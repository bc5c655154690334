// Package keywords loads search phrases from a plain text file.
package keywords

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadFile reads one keyword or phrase per line. Blank lines and lines
// starting with '#' are skipped, surrounding double quotes are stripped
// and everything is lowercased so matching is case-insensitive.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keywords file: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.Trim(line, `"`)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, strings.ToLower(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read keywords file: %w", err)
	}
	return out, nil
}
