package wirebox

import "github.com/wirebox/wirebox/loaders"

// ConfigRecord is the parsed content of one configuration file.
type ConfigRecord = loaders.Record

// RawServiceRecord is one service entry exactly as authored.
type RawServiceRecord = loaders.RawService

// FileKind classifies a discovered configuration file by its filename.
type FileKind string

const (
	// FileKindService marks a *services.json file.
	FileKindService FileKind = "service"
	// FileKindParameter marks a *parameters.json file. Parameter files only
	// contribute parameters; a services section in one is never processed.
	FileKindParameter FileKind = "parameter"
	// FileKindEnvironmentService marks a *services_<env>.json file, matched
	// only when the build runs with an environment set.
	FileKindEnvironmentService FileKind = "environment-service"
)

// FileDescriptor describes one configuration source about to be resolved.
// Descriptors are created by the Discoverer for on-disk files, or
// synthesized by the Resolver for imports, and are never mutated after
// creation.
type FileDescriptor struct {
	// Path is the absolute location of the file.
	Path string

	// Directory is the absolute directory containing the file. Relative
	// import paths inside the file resolve against it.
	Directory string

	// Depth is the hierarchy level counted from the scan root: files in the
	// root are 0, each subdirectory descent adds 1. Imports inherit the
	// depth of the importing file.
	Depth int

	// Kind classifies the file by filename pattern.
	Kind FileKind

	// Preloaded carries an already-parsed record when the descriptor was
	// synthesized rather than discovered from disk. When nil the Resolver
	// asks its loader for the file at Path.
	Preloaded *ConfigRecord
}
