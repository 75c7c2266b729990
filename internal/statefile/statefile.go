// Package statefile persists and resumes ExperimentState, per spec.md §5:
// every completed OA row is checkpointed to a fresh, timestamped YAML file
// so a killed run can recover from its last committed row rather than from
// scratch.
package statefile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/marijaaleksic/taguchi-engine/internal/model"
	"gopkg.in/yaml.v3"
)

// Store implements runner.Persister by writing a new, uniquely-named state
// file into Dir on every call. Using yaml.v3 directly (not viper) keeps the
// persisted document a round-trip-faithful mirror of ExperimentState.
type Store struct {
	Dir string
}

// filePrefix distinguishes state files from report/config files sharing Dir.
const filePrefix = "state-"

// timestampLayout is RFC3339 in UTC with a fixed nine-digit fraction, so
// every timestamp has the same width and lexical order equals time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Persist writes state to a new file named state-<UTC timestamp>-<short
// uuid>.yaml inside Dir, satisfying runner.Persister. The timestamp keeps
// files lexically sorted by creation order; the uuid suffix guards against
// two checkpoints landing in the same nanosecond.
func (s Store) Persist(state model.ExperimentState) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return model.NewPersistenceError("creating output directory", err)
	}
	name := fmt.Sprintf("%s%s-%s.yaml", filePrefix, state.UpdatedAt.UTC().Format(timestampLayout), shortUUID())
	path := filepath.Join(s.Dir, sanitizeFilename(name))

	data, err := yaml.Marshal(state)
	if err != nil {
		return model.NewPersistenceError("encoding experiment state", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return model.NewPersistenceError("writing state file "+path, err)
	}
	return nil
}

// Load reads and decodes a single state file.
func Load(path string) (model.ExperimentState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ExperimentState{}, model.NewPersistenceError("reading state file "+path, err)
	}
	var state model.ExperimentState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return model.ExperimentState{}, model.NewPersistenceError("decoding state file "+path, err)
	}
	return state, nil
}

// Latest returns the path of the most recently written state file in dir,
// per spec.md §5's --recover contract: resume from the latest checkpoint
// unless the operator names one explicitly. Filenames sort lexically by
// their fixed-width UTC timestamp, so the last name in sorted order is newest.
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", model.NewPersistenceError("reading state directory "+dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if len(e.Name()) > len(filePrefix) && e.Name()[:len(filePrefix)] == filePrefix {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", model.NewPersistenceError("no state files found in "+dir, nil)
	}
	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}

func shortUUID() string {
	id := uuid.New().String()
	return id[:8]
}

// sanitizeFilename replaces characters RFC3339Nano's colons introduce that
// are awkward on some filesystems, keeping names portable.
func sanitizeFilename(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == ':' {
			c = '-'
		}
		out[i] = c
	}
	return string(out)
}
