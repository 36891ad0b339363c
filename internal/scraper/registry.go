package scraper

import (
	"sort"
	"strings"
)

var registry = map[string]Scraper{}

// Register makes s available under its lower-cased name.
func Register(s Scraper) {
	registry[strings.ToLower(s.Name())] = s
}

// Get looks up a registered Scraper by name, ignoring case.
func Get(name string) (Scraper, bool) {
	s, ok := registry[strings.ToLower(name)]
	return s, ok
}

// Names lists registered scraper names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
