package modrelay

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Rules is the rule catalog: rule ID to violation text.
// Loaded once at startup, read-only afterwards.
type Rules map[string]string

func LoadRules(filename string) (Rules, error) {
	if filename == "" {
		return nil, fmt.Errorf("rules filename is empty")
	}

	fd, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%q open: %w", filename, err)
	}
	defer fd.Close()

	var rules Rules
	err = json.NewDecoder(fd).Decode(&rules)
	if err != nil {
		return nil, fmt.Errorf("%q decode: %w", filename, err)
	}

	if len(rules) == 0 {
		return nil, fmt.Errorf("%q contains no rules", filename)
	}

	return rules, nil
}

func (r Rules) Text(id string) string {
	return r[id]
}

// IDs returns the rule IDs in stable order: numeric IDs first in numeric
// order, the rest lexically. Maps don't keep order and the select menu
// must not reshuffle between relays.
func (r Rules) IDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		a, aerr := strconv.Atoi(ids[i])
		b, berr := strconv.Atoi(ids[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		if aerr == nil {
			return true
		}
		if berr == nil {
			return false
		}
		return ids[i] < ids[j]
	})

	return ids
}

// Shorten cuts s to at most n runes.
func Shorten(s string, n int) string {
	rr := []rune(s)
	if len(rr) <= n {
		return s
	}
	return string(rr[:n])
}
