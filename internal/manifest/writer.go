package manifest

import (
	"fmt"

	"gopkg.in/ini.v1"
)

func init() {
	// The downstream installer's parser expects name=version with no
	// whitespace around the delimiter.
	ini.PrettyFormat = false
}

// WriteVersions writes the release manifest for one category: a single
// section followed by one name=version line per entry, in insertion
// order, with exact-case keys. Any existing file is overwritten.
func WriteVersions(path, section string, versions *Versions) error {
	f := ini.Empty()
	sec, err := f.NewSection(section)
	if err != nil {
		return fmt.Errorf("create section %q: %w", section, err)
	}
	for _, name := range versions.Names() {
		version, _ := versions.Get(name)
		if _, err := sec.NewKey(name, version); err != nil {
			return fmt.Errorf("set key %q: %w", name, err)
		}
	}
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}

// ReadVersions reads back a release manifest written by WriteVersions.
// Key order and case are preserved.
func ReadVersions(path, section string) (*Versions, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	sec, err := f.GetSection(section)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	versions := NewVersions()
	for _, key := range sec.Keys() {
		versions.Set(key.Name(), key.Value())
	}
	return versions, nil
}
