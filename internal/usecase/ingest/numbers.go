package ingest

import (
	"encoding/json"
	"fmt"
	"os"
)

// numbersFile is the on-disk list format: {"patent_numbers": ["US1234567B2", ...]}.
type numbersFile struct {
	PatentNumbers []string `json:"patent_numbers"`
}

// LoadNumbers reads patent numbers from a JSON file.
func LoadNumbers(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patent numbers %s: %w", path, err)
	}

	var f numbersFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse patent numbers %s: %w", path, err)
	}
	return f.PatentNumbers, nil
}

// MergeNumbers concatenates lists, dropping repeats and keeping first-seen order.
func MergeNumbers(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range lists {
		for _, n := range l {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}
