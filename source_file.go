package pension

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// ObservationFile is a Source replaying an observation saved as JSON, as
// printed by "pensionctl fetch -json".
type ObservationFile struct {
	Path string
}

// Observe implements Source.
func (f ObservationFile) Observe(context.Context) (Observation, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return Observation{}, err
	}
	var obs Observation
	if err := json.Unmarshal(data, &obs); err != nil {
		return Observation{}, fmt.Errorf("invalid observation file %q: %w", f.Path, err)
	}
	return obs, nil
}

var _ Source = ObservationFile{}
