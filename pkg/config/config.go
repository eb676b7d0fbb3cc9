package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the per-agent configuration file that also marks the agent
// root directory.
const FileName = "broca.yaml"

// Environment overrides.
const (
	EnvRoot      = "BROCA_ROOT"
	EnvMemoryDir = "BROCA_MEMORY_DIR"
)

// Defaults for a freshly initialized agent root.
const (
	DefaultMemoryDir   = "memory"
	DefaultStateFile   = "state.md"
	DefaultIndexFile   = "index.yml"
	DefaultRecallLimit = 10
)

// ErrNoRoot is returned when no directory up the tree holds a broca.yaml.
var ErrNoRoot = errors.New("config: no " + FileName + " found in this or any parent directory")

// Config is the content of broca.yaml.
type Config struct {
	Memory MemorySection `yaml:"memory"`
	Recall RecallSection `yaml:"recall"`
	Log    LogSection    `yaml:"log"`
}

// MemorySection locates the memory tree. Relative paths are relative to the
// agent root.
type MemorySection struct {
	Dir       string `yaml:"dir"`
	StateFile string `yaml:"state_file"`
	IndexFile string `yaml:"index_file"`
}

// RecallSection holds ranking defaults.
type RecallSection struct {
	Limit int `yaml:"limit"`
}

// LogSection controls the session log. An empty Dir means ~/.broca/logs.
type LogSection struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Default returns the configuration written by `broca init`.
func Default() Config {
	return Config{
		Memory: MemorySection{
			Dir:       DefaultMemoryDir,
			StateFile: DefaultStateFile,
			IndexFile: DefaultIndexFile,
		},
		Recall: RecallSection{Limit: DefaultRecallLimit},
		Log:    LogSection{Enabled: true},
	}
}

// withDefaults fills fields a hand-edited file left empty.
func (c Config) withDefaults() Config {
	d := Default()
	if c.Memory.Dir == "" {
		c.Memory.Dir = d.Memory.Dir
	}
	if c.Memory.StateFile == "" {
		c.Memory.StateFile = d.Memory.StateFile
	}
	if c.Memory.IndexFile == "" {
		c.Memory.IndexFile = d.Memory.IndexFile
	}
	if c.Recall.Limit <= 0 {
		c.Recall.Limit = d.Recall.Limit
	}
	return c
}

// Validate rejects values the memory store cannot work with.
func (c Config) Validate() error {
	for name, v := range map[string]string{
		"memory.state_file": c.Memory.StateFile,
		"memory.index_file": c.Memory.IndexFile,
	} {
		if !filepath.IsLocal(v) {
			return fmt.Errorf("config: %s must stay inside the memory directory, got %q", name, v)
		}
	}
	if c.Recall.Limit < 0 {
		return fmt.Errorf("config: recall.limit must not be negative, got %d", c.Recall.Limit)
	}
	return nil
}

// Workspace is a located agent root together with its effective settings.
type Workspace struct {
	Root   string
	Config Config
	store  *FileStore
}

// MemoryDir returns the absolute memory root. BROCA_MEMORY_DIR wins over
// memory.dir.
func (w *Workspace) MemoryDir() string {
	dir := w.Config.Memory.Dir
	if env := os.Getenv(EnvMemoryDir); env != "" {
		dir = env
	}
	return w.abs(dir)
}

// LogDir returns the configured log directory, or "" for the default.
func (w *Workspace) LogDir() string {
	if w.Config.Log.Dir == "" {
		return ""
	}
	return w.abs(w.Config.Log.Dir)
}

// ConfigPath returns the path of broca.yaml.
func (w *Workspace) ConfigPath() string {
	return filepath.Join(w.Root, FileName)
}

func (w *Workspace) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(w.Root, p)
}

// Open locates the agent root and loads its configuration. BROCA_ROOT is
// used when set; otherwise the search walks upward from start.
func Open(start string) (*Workspace, error) {
	root := os.Getenv(EnvRoot)
	if root == "" {
		found, err := FindRoot(start)
		if err != nil {
			return nil, err
		}
		root = found
	}
	return Load(root)
}

// Load reads broca.yaml from root. A missing file yields the defaults.
func Load(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("config: resolve root: %w", err)
	}
	store, err := NewFileStore(filepath.Join(abs, FileName))
	if err != nil {
		return nil, err
	}
	cfg := store.Config()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Workspace{Root: abs, Config: cfg, store: store}, nil
}

// FindRoot walks from start toward the filesystem root and returns the
// first directory containing broca.yaml.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("config: resolve %s: %w", start, err)
	}
	for {
		info, err := os.Stat(filepath.Join(dir, FileName))
		if err == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoRoot
		}
		dir = parent
	}
}

// Init makes root an agent root: it writes a default broca.yaml unless
// one exists and creates the memory tree. It reports whether the config
// file was created.
func Init(root string) (*Workspace, bool, error) {
	ws, err := Load(root)
	if err != nil {
		return nil, false, err
	}
	created := false
	if _, err := os.Stat(ws.ConfigPath()); errors.Is(err, os.ErrNotExist) {
		if err := ws.store.Set(ws.Config); err != nil {
			return nil, false, err
		}
		if err := ws.store.Save(); err != nil {
			return nil, false, err
		}
		created = true
	}
	for _, sub := range []string{"knowledge", "journal"} {
		if err := os.MkdirAll(filepath.Join(ws.MemoryDir(), sub), 0o750); err != nil {
			return nil, false, fmt.Errorf("config: create memory tree: %w", err)
		}
	}
	return ws, created, nil
}
