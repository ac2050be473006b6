// Package wirebox builds object-dependency registries from declarative
// configuration trees.
//
// A build scans a directory for services.json, parameters.json, and
// environment-specific services_<env>.json files, merges them under
// deterministic precedence rules, and populates a container with named
// parameters and normalized service definitions.
//
// Precedence is encoded entirely in processing order, since the container
// is last-write-wins: within the service files deeper directories are
// processed before shallower ones (root configuration overrides leaf
// configuration), environment-specific files follow the base service files,
// and parameter files always come last. Each file may import further files
// relative to its own directory; imports are resolved before the importing
// file's own entries and compose dotted namespace prefixes onto every name
// they register.
//
// The simplest use is the package-level entry point:
//
//	container, err := wirebox.BuildContainer("./config",
//		wirebox.WithEnvironment("prod"))
//
// The merge engine itself only depends on the Sink interface, so any
// registry can be populated via Builder.Populate.
package wirebox
