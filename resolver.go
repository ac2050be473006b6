package wirebox

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/wirebox/wirebox/loaders"
)

// Resolver processes one file descriptor and all of its transitive imports,
// emitting parameters and definitions into a sink.
type Resolver struct {
	// Loader parses config files. Required.
	Loader loaders.Loader

	// Logger receives per-file debug output. Optional.
	Logger Logger

	// MaxImportDepth caps the import recursion depth. Zero means unlimited,
	// which also means a cyclic import chain will recurse until the process
	// runs out of stack.
	MaxImportDepth int
}

// Resolve processes the descriptor under the given inherited namespace.
// Imports are resolved before the file's own entries, so a file's entries
// override those of its imports; parameters are emitted before services.
func (r *Resolver) Resolve(desc FileDescriptor, sink Sink, namespace string) error {
	return r.resolve(desc, sink, namespace, 0)
}

func (r *Resolver) resolve(desc FileDescriptor, sink Sink, namespace string, importDepth int) error {
	record := desc.Preloaded
	if record == nil {
		loaded, err := r.Loader.Load(desc.Path)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrLoadFailed, desc.Path, err)
		}
		record = loaded
	}

	effective := composeNamespace(namespace, record.Namespace)

	if r.Logger != nil {
		r.Logger.Debug("Resolving config file",
			"path", desc.Path, "kind", desc.Kind, "depth", desc.Depth, "namespace", effective)
	}

	for _, imp := range record.Imports {
		if r.MaxImportDepth > 0 && importDepth >= r.MaxImportDepth {
			return fmt.Errorf("%w: %s imports %s", ErrImportDepthExceeded, desc.Path, imp)
		}

		// Imports inherit the importing file's depth and are treated as
		// plain service files regardless of their filename.
		path := filepath.Join(desc.Directory, imp)
		child := FileDescriptor{
			Path:      path,
			Directory: filepath.Dir(path),
			Depth:     desc.Depth,
			Kind:      FileKindService,
		}
		if err := r.resolve(child, sink, effective, importDepth+1); err != nil {
			return err
		}
	}

	for _, key := range sortedKeys(record.Parameters) {
		sink.SetParameter(qualify(effective, key), record.Parameters[key])
	}

	// A parameter file's services section is never processed.
	if desc.Kind == FileKindParameter {
		return nil
	}

	for _, name := range sortedKeys(record.Services) {
		definition := NewDefinition(record.Services[name], desc.Directory, effective)
		sink.SetDefinition(qualify(effective, name), definition)
	}
	return nil
}

// composeNamespace appends a declared namespace to the inherited one with a
// dot separator. A file that declares no namespace leaves the inherited one
// unchanged.
func composeNamespace(inherited, declared string) string {
	if declared == "" {
		return inherited
	}
	if inherited == "" {
		return declared
	}
	return inherited + "." + declared
}

// qualify prefixes a name with the effective namespace.
func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

// sortedKeys returns the map keys in lexical order so emission is
// deterministic within one file. Cross-file precedence comes from the
// processing order, not from key order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
