package profile

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a candidate profile from a JSON file.
func Load(path string) (Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("reading profile file: %w", err)
	}

	var candidate Candidate
	if err := json.Unmarshal(data, &candidate); err != nil {
		return Candidate{}, fmt.Errorf("parsing profile file %q: %w", path, err)
	}

	if len(candidate.Sections) == 0 {
		return Candidate{}, fmt.Errorf("profile file %q contains no sections", path)
	}

	return candidate, nil
}
