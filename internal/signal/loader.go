package signal

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Snapshot is the boundary format for an exported portfolio: the account
// signals of one refresh cycle plus the operator roster keyed by operator id.
type Snapshot struct {
	TakenAt   time.Time                  `yaml:"taken_at,omitempty"`
	Accounts  []AccountSignal            `yaml:"accounts"`
	Operators map[string]OperatorProfile `yaml:"operators,omitempty"`
}

// ParseSnapshotYAML decodes and validates a snapshot from YAML bytes,
// deriving days-until-renewal for every account that only carries a date.
func ParseSnapshotYAML(data []byte, now time.Time) (Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Snapshot{}, fmt.Errorf("signal: snapshot payload is empty")
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("signal: decode snapshot: %w", err)
	}
	for i, account := range snap.Accounts {
		if err := account.Validate(); err != nil {
			return Snapshot{}, err
		}
		snap.Accounts[i] = account.Derived(now)
	}
	return snap, nil
}

// LoadSnapshotFile reads a snapshot from disk.
func LoadSnapshotFile(path string, now time.Time) (Snapshot, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("signal: read %s: %w", path, err)
	}
	snap, parseErr := ParseSnapshotYAML(content, now)
	if parseErr != nil {
		return Snapshot{}, fmt.Errorf("signal: %s: %w", path, parseErr)
	}
	return snap, nil
}
