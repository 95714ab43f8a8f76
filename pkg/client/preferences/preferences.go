// Package preferences is a small observable store for durable UI preferences
// such as the theme and font. Every subscriber holds an explicit unsubscribe
// so a dropped consumer cannot leak a listener.
package preferences

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Durable keys and their fallback values.
const (
	ThemeKey     = "pine-theme"
	DefaultTheme = "theme-light"

	FontKey     = "pine-font"
	DefaultFont = "plus-jakarta-sans"
)

// Emitter holds one durable string preference and notifies subscribers on
// every change. Multiple emitters over the same key stay in sync only within
// one process; cross-process readers pick the value up on next load.
type Emitter struct {
	mu        sync.Mutex
	path      string
	fallback  string
	current   string
	nextSubID int
	listeners map[int]func(string)
}

// NewEmitter creates an emitter persisting under key in dir. An empty dir
// resolves to the user's config directory under an app-specific folder. The
// stored value is loaded immediately; fallback applies when nothing is stored.
func NewEmitter(dir, key, fallback string) (*Emitter, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config directory: %w", err)
		}
		dir = filepath.Join(base, "pine")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}

	e := &Emitter{
		path:      filepath.Join(dir, key),
		fallback:  fallback,
		listeners: make(map[int]func(string)),
	}
	e.current = e.load()
	return e, nil
}

// NewThemeEmitter creates the theme emitter with its durable key and default.
func NewThemeEmitter(dir string) (*Emitter, error) {
	return NewEmitter(dir, ThemeKey, DefaultTheme)
}

// NewFontEmitter creates the font emitter with its durable key and default.
func NewFontEmitter(dir string) (*Emitter, error) {
	return NewEmitter(dir, FontKey, DefaultFont)
}

// Current returns the active preference value.
func (e *Emitter) Current() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Set persists the value and notifies every subscriber, including any
// subscriber registered by the caller itself.
func (e *Emitter) Set(value string) error {
	e.mu.Lock()
	if err := os.WriteFile(e.path, []byte(value), 0600); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("failed to persist preference: %w", err)
	}
	e.current = value
	notify := make([]func(string), 0, len(e.listeners))
	for _, fn := range e.listeners {
		notify = append(notify, fn)
	}
	e.mu.Unlock()

	for _, fn := range notify {
		fn(value)
	}
	return nil
}

// Subscribe registers a listener for future changes and returns its
// unsubscribe function.
func (e *Emitter) Subscribe(fn func(string)) func() {
	e.mu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.listeners[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

func (e *Emitter) load() string {
	data, err := os.ReadFile(e.path)
	if err != nil {
		return e.fallback
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		return e.fallback
	}
	return value
}
