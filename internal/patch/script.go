package patch

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Script is the on-disk TOML form of a patch: a sequence of [[replace]]
// tables applied in order.
//
//	[[replace]]
//	find = "let idleId: number | undefined;"
//	replace = "let idleId: number | undefined;\nlet controller = null;"
//	count = 1
type Script struct {
	Replace []scriptReplacement `toml:"replace"`
}

type scriptReplacement struct {
	Find    string `toml:"find"`
	Replace string `toml:"replace"`
	Count   int    `toml:"count"`
}

// LoadScript reads a TOML patch script and converts it to replacements.
func LoadScript(path string) ([]Replacement, error) {
	var script Script
	if _, err := toml.DecodeFile(path, &script); err != nil {
		return nil, fmt.Errorf("failed to load patch script %s: %w", path, err)
	}
	if len(script.Replace) == 0 {
		return nil, fmt.Errorf("patch script %s has no [[replace]] entries", path)
	}

	repls := make([]Replacement, 0, len(script.Replace))
	for i, r := range script.Replace {
		if r.Find == "" {
			return nil, fmt.Errorf("patch script %s: [[replace]] entry %d has empty find", path, i+1)
		}
		repls = append(repls, Replacement{
			Find:    r.Find,
			Replace: r.Replace,
			Count:   r.Count,
		})
	}
	return repls, nil
}
