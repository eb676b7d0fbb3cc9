package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

const (
	knowledgeDirName = "knowledge"
	journalDirName   = "journal"

	DefaultStateFile = "state.md"
	DefaultIndexFile = "index.yml"
)

// Logger receives non-fatal problems found while scanning the store.
type Logger interface {
	Warnf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{}) {}

// Store reads and writes entries under a memory root. It keeps no state
// between calls and performs no locking: callers serialize writers.
type Store struct {
	root      string
	stateFile string
	indexFile string
	now       func() time.Time
	logger    Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger routes scan warnings to l.
func WithLogger(l Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStateFile overrides the state file name, relative to the root.
func WithStateFile(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.stateFile = name
		}
	}
}

// WithIndexFile overrides the index file name, relative to the root.
func WithIndexFile(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.indexFile = name
		}
	}
}

// NewStore returns a Store rooted at root. Directories are created lazily
// on the first write.
func NewStore(root string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: empty memory root", ErrInvalidInput)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("memory: abs root: %w", err)
	}
	s := &Store{
		root:      abs,
		stateFile: DefaultStateFile,
		indexFile: DefaultIndexFile,
		now:       time.Now,
		logger:    nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the absolute memory root.
func (s *Store) Root() string { return s.root }

// KnowledgeDir returns the directory holding knowledge entries.
func (s *Store) KnowledgeDir() string { return filepath.Join(s.root, knowledgeDirName) }

// JournalDir returns the directory holding journal entries.
func (s *Store) JournalDir() string { return filepath.Join(s.root, journalDirName) }

// IndexPath returns where BuildIndex writes the index.
func (s *Store) IndexPath() string { return filepath.Join(s.root, s.indexFile) }

// StatePath returns the path of the state file.
func (s *Store) StatePath() string { return filepath.Join(s.root, s.stateFile) }

// Remember creates a knowledge entry with the default confidence.
func (s *Store) Remember(ctx context.Context, kind Kind, title, body string, tags []string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kind, err := ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	if !kind.IsKnowledge() {
		return nil, fmt.Errorf("%w: %q is not a knowledge type", ErrInvalidInput, kind)
	}
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return nil, fmt.Errorf("%w: empty title", ErrInvalidInput)
	}

	created := s.now().UTC().Truncate(time.Second)
	id, err := allocateID(s.KnowledgeDir(), knowledgeID(created, title))
	if err != nil {
		return nil, err
	}
	e := &Entry{
		ID:         id,
		Kind:       kind,
		Title:      title,
		Body:       body,
		Tags:       cleanTags(tags),
		Confidence: DefaultConfidence,
		Created:    created,
	}
	if err := s.create(s.KnowledgeDir(), e); err != nil {
		return nil, err
	}
	return e, nil
}

// Journal records an iteration summary keyed only by its timestamp.
func (s *Store) Journal(ctx context.Context, summary string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	created := s.now().UTC().Truncate(time.Second)
	id, err := allocateID(s.JournalDir(), journalID(created))
	if err != nil {
		return nil, err
	}
	e := &Entry{
		ID:         id,
		Kind:       KindJournal,
		Title:      created.Format(createdLayout),
		Body:       summary,
		Tags:       []string{},
		Confidence: DefaultConfidence,
		Created:    created,
	}
	if err := s.create(s.JournalDir(), e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Store) create(dir string, e *Entry) error {
	e.Path = filepath.Join(dir, e.Filename())
	e.Raw = Render(e)
	return writeAtomic(e.Path, []byte(e.Raw))
}

// Load resolves ref and parses the entry it names.
func (s *Store) Load(ctx context.Context, ref string) (*Entry, error) {
	path, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	return readEntry(path)
}

// ListKnowledge returns every readable knowledge entry ordered by id.
func (s *Store) ListKnowledge(ctx context.Context) ([]*Entry, error) {
	return s.scan(ctx, s.KnowledgeDir())
}

// ListJournal returns every readable journal entry ordered by id.
func (s *Store) ListJournal(ctx context.Context) ([]*Entry, error) {
	return s.scan(ctx, s.JournalDir())
}

// scan parses all entry files in dir. A missing directory is an empty
// namespace; unreadable or malformed files are logged and skipped.
func (s *Store) scan(ctx context.Context, dir string) ([]*Entry, error) {
	names, err := entryFiles(dir)
	if err != nil {
		return nil, err
	}
	entries := make([]*Entry, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(dir, name)
		e, err := readEntry(path)
		if err != nil {
			s.logger.Warnf("skipping %s: %v", path, err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// entryFiles lists the .md files in dir, sorted by name.
func entryFiles(dir string) ([]string, error) {
	des, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", ErrIO, dir, err)
	}
	var names []string
	for _, de := range des {
		if de.IsDir() || filepath.Ext(de.Name()) != fileExt {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Strings(names)
	return names, nil
}

func readEntry(path string) (*Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
		}
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}
	e, err := Parse(entryID(path), string(b))
	if err != nil {
		return nil, err
	}
	e.Path = path
	return e, nil
}

// Resolve maps a reference to an entry file. A reference may be an exact
// id, a filename, a glob pattern over ids, or a case-insensitive fragment of
// an id. Knowledge entries are tried before journal entries and the first
// match in id order wins.
func (s *Store) Resolve(ctx context.Context, ref string) (string, error) {
	return s.resolve(ctx, ref, false)
}

// resolveUnique is Resolve for writes: a pattern or fragment must match
// exactly one entry.
func (s *Store) resolveUnique(ctx context.Context, ref string) (string, error) {
	return s.resolve(ctx, ref, true)
}

func (s *Store) resolve(ctx context.Context, ref string, unique bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty entry reference", ErrInvalidInput)
	}
	ref = strings.TrimSuffix(filepath.Base(ref), fileExt)

	dirs := []string{s.KnowledgeDir(), s.JournalDir()}
	for _, dir := range dirs {
		path := filepath.Join(dir, ref+fileExt)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	match, err := referenceMatcher(ref)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, dir := range dirs {
		names, err := entryFiles(dir)
		if err != nil {
			return "", err
		}
		for _, name := range names {
			if !match(strings.TrimSuffix(name, fileExt)) {
				continue
			}
			if !unique {
				return filepath.Join(dir, name), nil
			}
			matches = append(matches, filepath.Join(dir, name))
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = entryID(m)
		}
		return "", fmt.Errorf("%w: %q matches %d entries (%s)", ErrInvalidInput, ref, len(matches), strings.Join(ids, ", "))
	}
}

func referenceMatcher(ref string) (func(string) bool, error) {
	if strings.ContainsAny(ref, "*?[{") {
		g, err := glob.Compile(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid pattern %q: %w", ErrInvalidInput, ref, err)
		}
		return g.Match, nil
	}
	lower := strings.ToLower(ref)
	return func(id string) bool {
		return strings.Contains(strings.ToLower(id), lower)
	}, nil
}

// UpdateConfidence rewrites the confidence line of the referenced entry and
// leaves the rest of the file untouched.
func (s *Store) UpdateConfidence(ctx context.Context, ref string, confidence float64) (*Entry, error) {
	if err := ValidateConfidence(confidence); err != nil {
		return nil, err
	}
	return s.rewrite(ctx, ref, func(raw string) (string, error) {
		return setHeaderField(raw, "confidence", formatConfidence(confidence))
	})
}

// ValidateConfidence rejects values outside [0, 1].
func ValidateConfidence(c float64) error {
	if math.IsNaN(c) || c < 0 || c > 1 {
		return fmt.Errorf("%w: confidence %v outside [0, 1]", ErrInvalidInput, c)
	}
	return nil
}

// rewrite loads the entry ref names unambiguously, applies edit to its raw
// text and stores the result atomically. An edit that no longer parses is
// rejected before anything is written.
func (s *Store) rewrite(ctx context.Context, ref string, edit func(raw string) (string, error)) (*Entry, error) {
	path, err := s.resolveUnique(ctx, ref)
	if err != nil {
		return nil, err
	}
	e, err := readEntry(path)
	if err != nil {
		return nil, err
	}
	updated, err := edit(e.Raw)
	if err != nil {
		return nil, fmt.Errorf("memory: rewrite %s: %w", e.ID, err)
	}
	next, err := Parse(e.ID, updated)
	if err != nil {
		return nil, fmt.Errorf("%w: rewrite %s: %w", ErrInvalidInput, e.ID, err)
	}
	if err := writeAtomic(path, []byte(updated)); err != nil {
		return nil, err
	}
	next.Path = path
	return next, nil
}

// Show returns the heading and body of the referenced entry without its
// header block.
func (s *Store) Show(ctx context.Context, ref string) (string, error) {
	e, err := s.Load(ctx, ref)
	if err != nil {
		return "", err
	}
	return stripHeader(e.Raw), nil
}

// State returns the state file verbatim, or "" when it does not exist.
func (s *Store) State(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(s.StatePath())
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: read state: %w", ErrIO, err)
	}
	return string(b), nil
}

// writeAtomic writes data next to path and renames it into place so that
// readers never observe a partial file.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrIO, filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: write temp file: %w", ErrIO, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("%w: rename %s: %w", ErrIO, path, err)
	}
	return nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
