package registry

import (
	"sort"
	"sync"
)

var symbolsMu sync.Mutex

// Provide registers a named symbol under key. Call from init() in handler packages.
// Panics on a duplicate name or once the key has been locked by Symbol.
func Provide[T any](key, name string, sym T) {
	symbolsMu.Lock()
	defer symbolsMu.Unlock()
	if GlobalRegistry.IsLocked(key) {
		panic("registry: " + key + " locked (provide only during init)")
	}
	table := symbols[T](key)
	if _, ok := table[name]; ok {
		panic("registry: duplicate symbol " + key + "/" + name)
	}
	table[name] = sym
	GlobalRegistry.SetGlobal(key, table)
}

// Symbol resolves a named symbol. Locks the key on first call.
func Symbol[T any](key, name string) (T, bool) {
	symbolsMu.Lock()
	defer symbolsMu.Unlock()
	if !GlobalRegistry.IsLocked(key) {
		GlobalRegistry.Lock(key)
	}
	sym, ok := symbols[T](key)[name]
	return sym, ok
}

// SymbolNames lists the names provided under key, sorted.
func SymbolNames[T any](key string) []string {
	symbolsMu.Lock()
	defer symbolsMu.Unlock()
	table := symbols[T](key)
	names := make([]string, 0, len(table))
	for n := range table {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Withdraw removes a symbol (for tests).
func Withdraw[T any](key, name string) {
	symbolsMu.Lock()
	defer symbolsMu.Unlock()
	GlobalRegistry.UnlockForTesting(key)
	table := symbols[T](key)
	delete(table, name)
	GlobalRegistry.SetGlobal(key, table)
}

func symbols[T any](key string) map[string]T {
	if v, ok := GlobalRegistry.GetGlobal(key); ok && v != nil {
		return v.(map[string]T)
	}
	return make(map[string]T)
}
