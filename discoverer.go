package wirebox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const nodeModulesDir = "node_modules"

// Discoverer walks a directory tree and collects configuration file
// descriptors. It imposes no ordering; SortHierarchy establishes the
// processing order afterwards.
type Discoverer struct {
	// Env enables matching of services_<env>.json files when non-empty.
	Env string

	// IncludeNodeModules disables the default pruning of node_modules
	// directories from the walk.
	IncludeNodeModules bool

	// Logger receives per-file debug output. Optional.
	Logger Logger
}

// Discover recursively visits every subdirectory under rootPath and returns
// a descriptor for each file matching one of the recognized filename
// patterns. Any filesystem error aborts discovery.
func (d *Discoverer) Discover(rootPath string) ([]FileDescriptor, error) {
	root, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDiscoveryFailed, rootPath, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDiscoveryFailed, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDirectory, root)
	}

	var descriptors []FileDescriptor
	if err = d.walk(root, 0, &descriptors); err != nil {
		return nil, err
	}

	if d.Logger != nil {
		d.Logger.Debug("Configuration discovery complete", "root", root, "files", len(descriptors))
	}
	return descriptors, nil
}

func (d *Discoverer) walk(dir string, depth int, out *[]FileDescriptor) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDiscoveryFailed, dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			if !d.IncludeNodeModules && entry.Name() == nodeModulesDir {
				if d.Logger != nil {
					d.Logger.Debug("Pruning node_modules directory", "directory", filepath.Join(dir, entry.Name()))
				}
				continue
			}
			if err = d.walk(filepath.Join(dir, entry.Name()), depth+1, out); err != nil {
				return err
			}
			continue
		}

		kind, ok := d.classify(entry.Name())
		if !ok {
			continue
		}
		*out = append(*out, FileDescriptor{
			Path:      filepath.Join(dir, entry.Name()),
			Directory: dir,
			Depth:     depth,
			Kind:      kind,
		})
	}
	return nil
}

// classify matches a filename against the recognized suffix patterns, in
// priority order: service, parameter, environment service.
func (d *Discoverer) classify(name string) (FileKind, bool) {
	switch {
	case strings.HasSuffix(name, "services.json"):
		return FileKindService, true
	case strings.HasSuffix(name, "parameters.json"):
		return FileKindParameter, true
	case d.Env != "" && strings.HasSuffix(name, "services_"+d.Env+".json"):
		return FileKindEnvironmentService, true
	}
	return "", false
}
