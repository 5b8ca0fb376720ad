// Package config loads scheduler and world-generation tunables from an
// embedded YAML baseline, optionally overlaid with a user file, and exposes
// them through mutex-guarded package-level settings a running simulation can
// read every frame and a host can adjust live.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// SchedulerConfig holds the region scheduler's tunable thresholds.
type SchedulerConfig struct {
	StalenessThreshold   uint64 `yaml:"staleness_threshold"`
	MaxRegionsAdvanced   int    `yaml:"max_regions_advanced"`
	VisiblePriorityBoost uint64 `yaml:"visible_priority_boost"`
	TargetChunkUpdates   uint64 `yaml:"target_chunk_updates"`
}

// WorldConfig holds world-generation tunables.
type WorldConfig struct {
	Seed int64 `yaml:"seed"`
}

// Settings is the full set of loaded configuration.
type Settings struct {
	Scheduler SchedulerConfig `yaml:"scheduler"`
	World     WorldConfig     `yaml:"world"`
}

// Load reads the embedded baseline and, if path is non-empty, overlays a
// user YAML file on top of it (only fields present in the file are
// overwritten). If path is empty, only the embedded baseline is used.
func Load(path string) (*Settings, error) {
	s := &Settings{}
	if err := yaml.Unmarshal(defaultsYAML, s); err != nil {
		return nil, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	return s, nil
}

// runtimeSettings is the mutex-guarded, live-adjustable view of the loaded
// configuration. A Set* call is seen by every later Get* call; a caller that
// copied a value earlier (world.New copies the scheduler settings once) keeps
// its copy until it reads again.
type runtimeSettings struct {
	mu        sync.RWMutex
	scheduler SchedulerConfig
	world     WorldConfig
}

var global = newGlobal()

func newGlobal() *runtimeSettings {
	d := mustEmbeddedDefaults()
	return &runtimeSettings{scheduler: d.Scheduler, world: d.World}
}

func mustEmbeddedDefaults() *Settings {
	s, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults.yaml is invalid: %v", err))
	}
	return s
}

// Init loads path (embedded defaults if path is empty) and replaces the
// global runtime settings. Call once at startup, before the frame loop
// begins reading Get* below.
func Init(path string) error {
	s, err := Load(path)
	if err != nil {
		return err
	}
	global.mu.Lock()
	global.scheduler = s.Scheduler
	global.world = s.World
	global.mu.Unlock()
	return nil
}

// GetScheduler returns the current scheduler tunables.
func GetScheduler() SchedulerConfig {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.scheduler
}

// SetScheduler replaces the scheduler tunables, clamping to values that keep
// the budget-selection loop in scheduler.go making forward progress.
func SetScheduler(cfg SchedulerConfig) {
	if cfg.MaxRegionsAdvanced < 1 {
		cfg.MaxRegionsAdvanced = 1
	}

	global.mu.Lock()
	defer global.mu.Unlock()
	global.scheduler = cfg
}

// GetWorld returns the current world-generation tunables.
func GetWorld() WorldConfig {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.world
}

// SetWorldSeed overrides the world seed used by a future World.
func SetWorldSeed(seed int64) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.world.Seed = seed
}
