package page

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"
)

// Well-known metadata keys set by the built-in transformers.
const (
	KeyFrontmatter   = "frontmatter"
	KeyTitle         = "title"
	KeyTags          = "tags"
	KeyAliases       = "aliases"
	KeyDraft         = "draft"
	KeyPublish       = "publish"
	KeyDescription   = "description"
	KeyCSSClasses    = "cssclasses"
	KeyCreated       = "created"
	KeyModified      = "modified"
	KeyPublished     = "published"
	KeyMath          = "math"
	KeyCodeLanguages = "codeLanguages"
	KeySyntaxTheme   = "syntaxTheme"
	KeyTOC           = "toc"
	KeyEnableTOC     = "enableToc"
	KeyLinks         = "links"
	KeyExternalLinks = "externalLinks"
	KeyText          = "text"
	KeySourceBody    = "sourceBody"
)

// ErrFrozen is the panic value raised when a frozen page is mutated.
var ErrFrozen = errors.New("page is frozen: emitters must not mutate pages")

// Metadata is the mutable string-keyed mapping a page accumulates while
// transformers run. It is safe for concurrent reads once frozen.
type Metadata struct {
	mu     sync.RWMutex
	values map[string]any
	frozen bool
}

// NewMetadata returns empty metadata.
func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]any)}
}

// Get returns the raw value stored under key. Once frozen, map and slice
// values are returned as deep copies so readers cannot change the page.
func (m *Metadata) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if ok && m.frozen {
		v = cloneValue(v)
	}
	return v, ok
}

// Has reports whether key is set.
func (m *Metadata) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key. It panics with ErrFrozen after Freeze.
func (m *Metadata) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frozen {
		panic(ErrFrozen)
	}
	m.values[key] = value
}

// Delete removes key. It panics with ErrFrozen after Freeze.
func (m *Metadata) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frozen {
		panic(ErrFrozen)
	}
	delete(m.values, key)
}

// Freeze makes the metadata read-only.
func (m *Metadata) Freeze() {
	m.mu.Lock()
	m.frozen = true
	m.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (m *Metadata) Frozen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frozen
}

// Keys returns the set keys in lexical order.
func (m *Metadata) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// String returns the value under key when it is a string.
func (m *Metadata) String(key string) string {
	v, _ := m.Get(key)
	s, _ := v.(string)
	return s
}

// Bool interprets the value under key as a boolean. Strings are accepted
// case-insensitively ("true", "yes", "1").
func (m *Metadata) Bool(key string) bool {
	v, _ := m.Get(key)
	return Truthy(v)
}

// Truthy reports whether a frontmatter-style value means true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1":
			return true
		}
	case int:
		return t != 0
	}
	return false
}

// Strings returns the value under key as a string list. A single string is
// returned as a one-element list; non-string list items are skipped.
func (m *Metadata) Strings(key string) []string {
	v, _ := m.Get(key)
	return ToStrings(v)
}

// ToStrings converts a scalar or list value to a string slice.
func ToStrings(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []string:
		return slices.Clone(t)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Time returns the value under key when it is a time.Time.
func (m *Metadata) Time(key string) (time.Time, bool) {
	v, _ := m.Get(key)
	t, ok := v.(time.Time)
	return t, ok
}

// cloneValue deep-copies maps and slices, including those nested inside
// them. Other values are returned unchanged.
func cloneValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return slices.Clone(t)
	}
	return cloneReflect(reflect.ValueOf(v)).Interface()
}

func cloneReflect(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneReflect(iter.Value()))
		}
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			out.Index(i).Set(cloneReflect(rv.Index(i)))
		}
		return out
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		inner := cloneReflect(rv.Elem())
		out := reflect.New(rv.Type()).Elem()
		out.Set(inner)
		return out
	}
	return rv
}
