package manifest

// Versions is an insertion-ordered name→version mapping. The release
// manifest must list entries in the same order they appear in the source
// manifest, so a plain map is not enough.
type Versions struct {
	names  []string
	values map[string]string
}

// NewVersions creates an empty Versions mapping.
func NewVersions() *Versions {
	return &Versions{values: make(map[string]string)}
}

// Set adds or replaces the version for name. First insertion fixes the
// position of the key.
func (v *Versions) Set(name, version string) {
	if _, ok := v.values[name]; !ok {
		v.names = append(v.names, name)
	}
	v.values[name] = version
}

// Get returns the version for name.
func (v *Versions) Get(name string) (string, bool) {
	version, ok := v.values[name]
	return version, ok
}

// Names returns the keys in insertion order.
func (v *Versions) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// Len returns the number of entries.
func (v *Versions) Len() int {
	return len(v.names)
}

// Map returns a plain map copy of the mapping.
func (v *Versions) Map() map[string]string {
	out := make(map[string]string, len(v.values))
	for k, val := range v.values {
		out[k] = val
	}
	return out
}
