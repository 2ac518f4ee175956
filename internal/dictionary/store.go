// Package dictionary loads project, error and terminology dictionaries from a data
// directory and serves immutable per-project bundles.
package dictionary

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/locvowork/transtool/pkg/checker"
	"gopkg.in/yaml.v2"
)

// ErrUnknownProject is returned for project IDs absent from projects.json.
var ErrUnknownProject = errors.New("unknown project")

const (
	projectsBase = "projects"
	errDictBase  = "errDict"
)

// Snapshot is one immutable load of the data directory.
type Snapshot struct {
	Projects OrderedMap[Project]
	Errors   ErrorDictionary
	LoadedAt time.Time

	bundles  map[string]*ProjectBundle
	termErrs map[string]error
}

// ProjectIDs returns project IDs in file order.
func (s *Snapshot) ProjectIDs() []string {
	return s.Projects.Keys()
}

// Project looks up a project by ID.
func (s *Snapshot) Project(id string) (Project, bool) {
	return s.Projects.Get(id)
}

// Bundle returns the dictionaries filtered for one project.
func (s *Snapshot) Bundle(id string) (*ProjectBundle, error) {
	if err, ok := s.termErrs[id]; ok {
		return nil, err
	}
	b, ok := s.bundles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProject, id)
	}
	return b, nil
}

// Store holds the current Snapshot. Reload swaps it atomically; callers keep
// whatever snapshot they already obtained.
type Store struct {
	dir     string
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex
}

// NewStore returns a store for dir without loading it.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load creates a store and performs the first load.
func Load(dir string) (*Store, error) {
	s := NewStore(dir)
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir is the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Snapshot returns the current snapshot, or nil before the first load.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Bundle is a shortcut for Snapshot().Bundle(id).
func (s *Store) Bundle(id string) (*ProjectBundle, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, errors.New("dictionaries not loaded")
	}
	return snap.Bundle(id)
}

// Reload reads the data directory and publishes a new snapshot. On error the
// previous snapshot stays current.
func (s *Store) Reload() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.read()
	if err != nil {
		return nil, err
	}
	s.current.Store(snap)
	return snap, nil
}

func (s *Store) read() (*Snapshot, error) {
	var pf projectsFile
	if err := readDictFile(s.dir, projectsBase, &pf); err != nil {
		return nil, err
	}
	var ed ErrorDictionary
	if err := readDictFile(s.dir, errDictBase, &ed); err != nil {
		return nil, err
	}

	for i := range pf.Projects {
		pf.Projects[i].Value.ID = pf.Projects[i].Key
	}

	snap := &Snapshot{
		Projects: pf.Projects,
		Errors:   ed,
		LoadedAt: time.Now(),
		bundles:  make(map[string]*ProjectBundle, len(pf.Projects)),
		termErrs: make(map[string]error),
	}

	// Global parts are shared by every project bundle.
	warn := toPairs(ed.Warn)
	hints := toPairs(ed.TransHint)
	repeat := checker.NewRuneSet(ed.Repeat)

	for _, e := range pf.Projects {
		p := e.Value
		var td TermDictionary
		if err := readFile(filepath.Join(s.dir, p.TermDictFile()), &td); err != nil {
			// Only this project becomes unusable.
			snap.termErrs[p.ID] = fmt.Errorf("project %s: %w", p.ID, err)
			continue
		}
		snap.bundles[p.ID] = &ProjectBundle{
			Project: p,
			Bundle: &checker.Bundle{
				ErrorTerms:          FilterErrorTerms(ed.Err, p.Tags),
				WarningTerms:        warn,
				RepeatExempt:        repeat,
				MistranslationHints: hints,
				Terminology:         td.Word,
			},
			ErrDictVersion:  ed.Version,
			TermDictVersion: td.Version,
		}
	}
	return snap, nil
}

// readDictFile reads base.json, base.yaml or base.yml, whichever exists first.
func readDictFile(dir, base string, v interface{}) error {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(dir, base+ext)
		if _, err := os.Stat(path); err == nil {
			return readFile(path, v)
		}
	}
	return fmt.Errorf("%s: no %s.json, %s.yaml or %s.yml", dir, base, base, base)
}

func readFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
