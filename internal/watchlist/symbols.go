package watchlist

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidSymbol = errors.New("invalid symbol")

var symbolRe = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{0,19}$`)

// NormalizeSymbol uppercases a ticker and rejects anything that is not a plausible symbol.
func NormalizeSymbol(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if !symbolRe.MatchString(s) {
		return "", ErrInvalidSymbol
	}
	return s, nil
}

// dedupe keeps the first occurrence of each symbol in order.
func dedupe(symbols []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
