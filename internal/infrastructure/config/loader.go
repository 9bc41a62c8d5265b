package config

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// GameConfig holds all loaded configurations
type GameConfig struct {
	Physics *PhysicsConfig
}

// Loader loads game configuration from YAML files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// BasePath returns the path the loader was created with.
func (l *Loader) BasePath() string {
	return l.basePath
}

// LoadPhysics loads physics.yaml
func (l *Loader) LoadPhysics() (*PhysicsConfig, error) {
	var cfg PhysicsConfig
	if err := l.decode("physics.yaml", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadLevel loads levels/<name>.yaml and any script files it references
func (l *Loader) LoadLevel(name string) (*LevelConfig, error) {
	var cfg LevelConfig
	if err := l.decode(levelPath(name), &cfg); err != nil {
		return nil, err
	}
	if cfg.ID == "" {
		cfg.ID = name
	}

	for i := range cfg.Entities {
		m := cfg.Entities[i].Motion
		if m == nil || m.ScriptFile == "" {
			continue
		}
		src, err := fs.ReadFile(l.fsys, path.Join("levels", m.ScriptFile))
		if err != nil {
			return nil, fmt.Errorf("failed to read script %s for level %s: %w", m.ScriptFile, name, err)
		}
		m.Script = string(src)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LevelNames lists the levels available to LoadLevel, sorted.
func (l *Loader) LevelNames() ([]string, error) {
	matches, err := fs.Glob(l.fsys, "levels/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

// LoadAll loads all base configurations (physics)
func (l *Loader) LoadAll() (*GameConfig, error) {
	physics, err := l.LoadPhysics()
	if err != nil {
		return nil, err
	}

	return &GameConfig{
		Physics: physics,
	}, nil
}

func (l *Loader) decode(name string, out any) error {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func levelPath(name string) string {
	return path.Join("levels", name+".yaml")
}
