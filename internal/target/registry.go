package target

import (
	"fmt"
	"slices"
	"sort"

	"github.com/vk/crossforge/internal/schema"
)

// Registry is the static catalog of leaf targets and groups for one run.
// It is built once from the loaded manifest and read-only thereafter.
type Registry struct {
	defaults Defaults

	records     map[string]*Record
	recordOrder []string

	groups     map[string][]string
	groupOrder []string
}

// NewRegistry validates the manifest model and builds the registry from it.
func NewRegistry(m *schema.Manifest) (*Registry, error) {
	if m.Library == nil {
		return nil, fmt.Errorf("manifest declares no library block")
	}
	if m.Defaults == nil {
		return nil, fmt.Errorf("manifest declares no defaults block")
	}
	if m.Defaults.CC == "" {
		return nil, fmt.Errorf("defaults block declares no compiler")
	}
	if len(m.Library.Sources) == 0 {
		return nil, fmt.Errorf("library %q declares no sources", m.Library.Name)
	}
	if len(m.Targets) == 0 {
		return nil, fmt.Errorf("manifest declares no targets")
	}

	output := m.Library.Output
	if output == "" {
		output = "resources/native"
	}
	scratch := m.Library.Scratch
	if scratch == "" {
		scratch = "build"
	}
	sourceDir := m.Library.SourceDir
	if sourceDir == "" {
		sourceDir = "."
	}

	r := &Registry{
		defaults: Defaults{
			LibName:     m.Library.Name,
			SourceDir:   sourceDir,
			OutputRoot:  output,
			ScratchRoot: scratch,
			CC:          m.Defaults.CC,
			LD:          m.Defaults.LD,
			CFlags:      slices.Clone(m.Defaults.CFlags),
			LDFlags:     slices.Clone(m.Defaults.LDFlags),
			Sources:     slices.Clone(m.Library.Sources),
		},
		records: make(map[string]*Record, len(m.Targets)),
		groups:  make(map[string][]string, len(m.Groups)),
	}

	artifacts := make(map[string]string, len(m.Targets))
	for _, t := range m.Targets {
		if _, dup := r.records[t.Name]; dup {
			return nil, fmt.Errorf("target %q declared twice", t.Name)
		}
		if t.Platform == "" {
			return nil, fmt.Errorf("target %q declares no platform directory", t.Name)
		}
		if len(t.LDFlags) > 0 && t.LDFlagsOverride != nil {
			return nil, fmt.Errorf("target %q declares both ldflags and ldflags_override", t.Name)
		}
		typ := LibraryType(t.Type)
		if t.Type != "" && !typ.valid() {
			return nil, fmt.Errorf("target %q declares unknown library type %q", t.Name, t.Type)
		}
		rec := &Record{
			Name:            t.Name,
			Platform:        t.Platform,
			Suffix:          t.Suffix,
			CC:              t.CC,
			LD:              t.LD,
			CFlags:          slices.Clone(t.CFlags),
			LDFlags:         slices.Clone(t.LDFlags),
			LDFlagsOverride: slices.Clone(t.LDFlagsOverride),
			ReplaceLDFlags:  t.LDFlagsOverride != nil,
			Sources:         slices.Clone(t.Sources),
			Type:            typ,
		}
		effType := rec.Type
		if effType == "" {
			effType = defaultType(rec.Platform)
		}
		path := ArtifactPath(output, rec.Platform, m.Library.Name, rec.Suffix, effType)
		if prev, clash := artifacts[path]; clash {
			return nil, fmt.Errorf("targets %q and %q resolve to the same artifact %s", prev, t.Name, path)
		}
		artifacts[path] = t.Name

		r.records[t.Name] = rec
		r.recordOrder = append(r.recordOrder, t.Name)
	}

	for _, g := range m.Groups {
		if _, dup := r.groups[g.Name]; dup {
			return nil, fmt.Errorf("group %q declared twice", g.Name)
		}
		if _, clash := r.records[g.Name]; clash {
			return nil, fmt.Errorf("group %q collides with a target of the same name", g.Name)
		}
		if len(g.Members) == 0 {
			return nil, fmt.Errorf("group %q has no members", g.Name)
		}
		for _, member := range g.Members {
			if _, ok := r.records[member]; !ok {
				return nil, fmt.Errorf("group %q names unknown target %q", g.Name, member)
			}
		}
		r.groups[g.Name] = slices.Clone(g.Members)
		r.groupOrder = append(r.groupOrder, g.Name)
	}

	return r, nil
}

// Defaults returns a copy of the global baseline configuration.
func (r *Registry) Defaults() Defaults {
	d := r.defaults
	d.CFlags = slices.Clone(d.CFlags)
	d.LDFlags = slices.Clone(d.LDFlags)
	d.Sources = slices.Clone(d.Sources)
	return d
}

// Lookup returns the record for a leaf target name.
func (r *Registry) Lookup(name string) (*Record, error) {
	rec, ok := r.records[name]
	if !ok {
		return nil, &UnknownTargetError{Name: name, Leaves: r.LeafNames(), Groups: r.GroupNames()}
	}
	return rec, nil
}

// Expand returns a group's member leaves in declaration order. Ordering is
// kept stable for deterministic build logs only.
func (r *Registry) Expand(name string) ([]string, error) {
	members, ok := r.groups[name]
	if !ok {
		return nil, &UnknownGroupError{Name: name, Groups: r.GroupNames()}
	}
	return slices.Clone(members), nil
}

// IsGroup reports whether the name refers to a group rather than a leaf.
func (r *Registry) IsGroup(name string) bool {
	_, ok := r.groups[name]
	return ok
}

// Compose materializes the effective configuration for one registered leaf.
func (r *Registry) Compose(name string) (Effective, error) {
	rec, err := r.Lookup(name)
	if err != nil {
		return Effective{}, err
	}
	return Compose(r.Defaults(), rec), nil
}

// LeafNames returns all leaf target names, sorted for display.
func (r *Registry) LeafNames() []string {
	names := slices.Clone(r.recordOrder)
	sort.Strings(names)
	return names
}

// GroupNames returns all group names, sorted for display.
func (r *Registry) GroupNames() []string {
	names := slices.Clone(r.groupOrder)
	sort.Strings(names)
	return names
}

// DeclarationOrder returns leaf names in manifest order.
func (r *Registry) DeclarationOrder() []string {
	return slices.Clone(r.recordOrder)
}
