package hcl

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/crossforge/internal/fsutil"
	"github.com/vk/crossforge/internal/schema"
)

// Loader parses build manifests into the schema model.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a manifest loader with a fresh parser cache.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Vars is the set of ambient values exposed to manifest expressions as
// top-level variables, e.g. "-I${devkit}/include/${host_os}".
type Vars struct {
	Devkit   string
	HostOS   string
	HostArch string
}

func (v Vars) evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"devkit":    cty.StringVal(v.Devkit),
			"host_os":   cty.StringVal(v.HostOS),
			"host_arch": cty.StringVal(v.HostArch),
		},
	}
}

// LoadBytes parses a single in-memory manifest. The filename is used only for
// diagnostic positions.
func (l *Loader) LoadBytes(filename string, src []byte, vars Vars) (*schema.Manifest, error) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}

	var manifest schema.Manifest
	if diags := gohcl.DecodeBody(file.Body, vars.evalContext(), &manifest); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, diags)
	}
	return &manifest, nil
}

// Load reads a manifest from path, which may be a single .hcl file or a
// directory searched recursively for .hcl files. Multi-file manifests are
// merged: target and group blocks accumulate, while the library and defaults
// blocks must each appear exactly once overall.
func (l *Loader) Load(path string, vars Vars) (*schema.Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("manifest path %s: %w", path, err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no .hcl manifest files found under %s", path)
		}
	}

	merged := &schema.Manifest{}
	for _, f := range files {
		src, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		manifest, err := l.LoadBytes(f, src, vars)
		if err != nil {
			return nil, err
		}
		if err := merge(merged, manifest, f); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// merge folds one file's manifest into the accumulated model.
func merge(dst, src *schema.Manifest, filename string) error {
	if src.Library != nil {
		if dst.Library != nil {
			return fmt.Errorf("%s: duplicate library block (a manifest set may declare only one)", filename)
		}
		dst.Library = src.Library
	}
	if src.Defaults != nil {
		if dst.Defaults != nil {
			return fmt.Errorf("%s: duplicate defaults block (a manifest set may declare only one)", filename)
		}
		dst.Defaults = src.Defaults
	}
	dst.Targets = append(dst.Targets, src.Targets...)
	dst.Groups = append(dst.Groups, src.Groups...)
	return nil
}
