package wirebox

import (
	"context"
	"fmt"

	"github.com/wirebox/wirebox/loaders"
)

// Option represents a functional option for configuring container builds
type Option func(*Builder) error

// Builder assembles a container from a directory tree of configuration
// files: discover, sort, then resolve each file into the sink in order.
type Builder struct {
	env                string
	includeNodeModules bool
	importDepthLimit   int
	logger             Logger
	loader             loaders.Loader
	observers          []observerRegistration
}

// NewBuilder creates a builder with the provided options applied. Unset
// concerns get defaults: a slog-backed logger and the extension-dispatching
// loader.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	if b.logger == nil {
		b.logger = NewSlogLogger(nil)
	}
	if b.loader == nil {
		b.loader = loaders.NewExtensionLoader()
	}
	return b, nil
}

// WithEnvironment enables environment-specific service files: with env set,
// files matching services_<env>.json are discovered and processed after the
// plain service files, so their entries override the base definitions.
func WithEnvironment(env string) Option {
	return func(b *Builder) error {
		b.env = env
		return nil
	}
}

// WithNodeModulesIncluded disables the default pruning of node_modules
// directories during discovery.
func WithNodeModulesIncluded() Option {
	return func(b *Builder) error {
		b.includeNodeModules = true
		return nil
	}
}

// WithImportDepthLimit caps import recursion at n levels, turning a cyclic
// import chain into a build error instead of stack exhaustion. Zero (the
// default) leaves recursion unbounded.
func WithImportDepthLimit(n int) Option {
	return func(b *Builder) error {
		b.importDepthLimit = n
		return nil
	}
}

// WithLogger sets the logger used throughout the build.
func WithLogger(logger Logger) Option {
	return func(b *Builder) error {
		b.logger = logger
		return nil
	}
}

// WithLoader replaces the config file loader.
func WithLoader(loader loaders.Loader) Option {
	return func(b *Builder) error {
		b.loader = loader
		return nil
	}
}

// WithObserver registers an observer for build events, optionally filtered
// by event type. With no types given the observer receives every event.
func WithObserver(fn ObserverFunc, eventTypes ...string) Option {
	return func(b *Builder) error {
		if fn == nil {
			return ErrObserverNil
		}
		typeSet := make(map[string]bool, len(eventTypes))
		for _, eventType := range eventTypes {
			typeSet[eventType] = true
		}
		b.observers = append(b.observers, observerRegistration{fn: fn, eventTypes: typeSet})
		return nil
	}
}

// BuildContainer builds a container from the configuration tree rooted at
// rootDir. This is the main entry point.
func BuildContainer(rootDir string, opts ...Option) (*Container, error) {
	builder, err := NewBuilder(opts...)
	if err != nil {
		return nil, err
	}
	return builder.Build(context.Background(), rootDir)
}

// Build discovers, sorts, and resolves the configuration tree under rootDir
// into a fresh container. The build is fail-fast: the first discovery or
// load error aborts it, since a half-built registry is unsafe to hand to a
// runtime.
func (b *Builder) Build(ctx context.Context, rootDir string) (*Container, error) {
	container := NewContainer(b.logger)
	if err := b.Populate(ctx, rootDir, container); err != nil {
		return nil, err
	}
	return container, nil
}

// Populate runs the build against an externally supplied sink. The sink is
// exclusively owned by this call for its entire duration.
func (b *Builder) Populate(ctx context.Context, rootDir string, sink Sink) error {
	notifier := &buildNotifier{source: "wirebox/" + rootDir, observers: b.observers, logger: b.logger}
	notifier.notify(ctx, EventTypeBuildStarted, map[string]any{"root": rootDir, "env": b.env})

	err := b.populate(ctx, rootDir, sink, notifier)
	if err != nil {
		b.logger.Error("Container build failed", "root", rootDir, "error", err)
		notifier.notify(ctx, EventTypeBuildFailed, map[string]any{"root": rootDir, "error": err.Error()})
		return err
	}

	notifier.notify(ctx, EventTypeBuildCompleted, map[string]any{"root": rootDir})
	return nil
}

func (b *Builder) populate(ctx context.Context, rootDir string, sink Sink, notifier *buildNotifier) error {
	discoverer := &Discoverer{
		Env:                b.env,
		IncludeNodeModules: b.includeNodeModules,
		Logger:             b.logger,
	}
	descriptors, err := discoverer.Discover(rootDir)
	if err != nil {
		return fmt.Errorf("discovery under %s: %w", rootDir, err)
	}

	for _, desc := range descriptors {
		notifier.notify(ctx, EventTypeFileDiscovered, map[string]any{
			"path": desc.Path, "kind": string(desc.Kind), "depth": desc.Depth,
		})
	}

	resolver := &Resolver{
		Loader:         b.loader,
		Logger:         b.logger,
		MaxImportDepth: b.importDepthLimit,
	}

	target := sink
	if len(b.observers) > 0 {
		target = &observingSink{next: sink, notifier: notifier, ctx: ctx}
	}

	for _, desc := range SortHierarchy(descriptors) {
		if err = resolver.Resolve(desc, target, ""); err != nil {
			return err
		}
	}

	b.logger.Info("Container build complete", "root", rootDir, "files", len(descriptors), "env", b.env)
	return nil
}
