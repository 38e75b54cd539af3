// Package logging wires btclog subsystem loggers for the game, the storage
// backend and the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/btcsuite/btclog"
)

// Subsystem tags.
const (
	SubsystemGame  = "GAME"
	SubsystemStore = "STOR"
	SubsystemCLI   = "CLI"
)

// Subsystems lists every known tag.
var Subsystems = []string{SubsystemGame, SubsystemStore, SubsystemCLI}

// Manager owns one btclog backend and hands out a logger per subsystem.
type Manager struct {
	mu      sync.Mutex
	backend *btclog.Backend
	loggers map[string]btclog.Logger
	level   btclog.Level
}

// New returns a Manager writing to w at the given level.
func New(w io.Writer, level btclog.Level) *Manager {
	if w == nil {
		w = os.Stderr
	}
	return &Manager{
		backend: btclog.NewBackend(w),
		loggers: make(map[string]btclog.Logger),
		level:   level,
	}
}

// Logger returns the logger for tag, creating it on first use.
func (m *Manager) Logger(tag string) btclog.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.loggers[tag]
	if !ok {
		l = m.backend.Logger(tag)
		l.SetLevel(m.level)
		m.loggers[tag] = l
	}
	return l
}

// SetLevel changes the level of every logger handed out so far and of the
// ones created later.
func (m *Manager) SetLevel(level btclog.Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
	for _, l := range m.loggers {
		l.SetLevel(level)
	}
}

// ParseLevel accepts the btclog level names (trace, debug, info, warn,
// error, critical, off). The empty string means info.
func ParseLevel(s string) (btclog.Level, error) {
	if s == "" {
		return btclog.LevelInfo, nil
	}
	level, ok := btclog.LevelFromString(strings.ToLower(s))
	if !ok {
		return btclog.LevelOff, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// Tags returns the subsystem tags created so far, sorted.
func (m *Manager) Tags() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	tags := make([]string, 0, len(m.loggers))
	for tag := range m.loggers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
