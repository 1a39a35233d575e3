package collector

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"stream-insights/internal/twitch"
)

// ReadChannelsFile loads the configured channel list: one login per line,
// '#' comment lines and blanks ignored. Entries are normalized and
// de-duplicated keeping first-seen order.
func ReadChannelsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open channels file: %w", err)
	}
	defer f.Close()

	seen := make(map[string]bool)
	var channels []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		login := twitch.NormalizeLogin(line)
		if login == "" || seen[login] {
			continue
		}
		seen[login] = true
		channels = append(channels, login)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read channels file: %w", err)
	}
	return channels, nil
}
