// Package locale tracks the active formatting locale for the process.
// Model types cache locale-bound formatters; when the active locale
// changes, the environment fans the change out so cached formatters
// are discarded and rebuilt on next use.
package locale

import (
	"os"
	"sync"

	"golang.org/x/text/language"
)

// Environment holds the active language tag and change subscribers.
// Safe for concurrent use: the HTTP layer may switch the locale while
// conversion requests are in flight.
type Environment struct {
	mu   sync.RWMutex
	tag  language.Tag
	subs []func(language.Tag)
}

// New creates an Environment bound to the given tag.
func New(tag language.Tag) *Environment {
	return &Environment{tag: tag}
}

// Tag returns the active language tag.
func (e *Environment) Tag() language.Tag {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tag
}

// SetTag switches the active locale and notifies all subscribers.
// Subscribers run on the calling goroutine.
func (e *Environment) SetTag(tag language.Tag) {
	e.mu.Lock()
	e.tag = tag
	subs := make([]func(language.Tag), len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	for _, fn := range subs {
		fn(tag)
	}
}

// Subscribe registers a callback invoked on every locale change.
func (e *Environment) Subscribe(fn func(language.Tag)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

var (
	defaultOnce sync.Once
	defaultEnv  *Environment
)

// Default returns the process-wide environment. The initial tag comes
// from APP_LOCALE (BCP 47) and falls back to English when unset or invalid.
func Default() *Environment {
	defaultOnce.Do(func() {
		defaultEnv = New(tagFromEnv(os.Getenv("APP_LOCALE")))
	})
	return defaultEnv
}

func tagFromEnv(v string) language.Tag {
	if v == "" {
		return language.English
	}
	parsed, err := language.Parse(v)
	if err != nil {
		return language.English
	}
	return parsed
}
