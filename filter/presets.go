package filter

import (
	"fmt"
	"sort"
)

// presets are named filter expressions for common list queries.
var presets = map[string]string{
	"favorites": `Favorite`,
	"untagged":  `untagged()`,
	"stale":     `Unread and daysSince(Added) > 365`,
	"longreads": `IsArticle and WordCount > 3000`,
	"videos":    `HasVideo`,
	"quick":     `IsArticle and WordCount > 0 and WordCount < 1000`,
}

// Preset compiles one of the built-in named filters.
func Preset(name string) (*Filter, error) {
	expression, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: %v)", name, PresetNames())
	}
	return Compile(expression)
}

// PresetNames returns the available preset names sorted alphabetically.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
