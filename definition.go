package wirebox

import (
	"fmt"
	"strings"

	"github.com/wirebox/wirebox/loaders"
)

// MethodCall is one setter-injection entry on a Definition.
type MethodCall = loaders.MethodCall

// Tag is one annotation on a Definition, used for service discovery by
// capability at runtime.
type Tag = loaders.Tag

// Definition is the normalized, runtime-consumable blueprint for one
// service. The merge engine never revisits a definition after handing it to
// the sink.
type Definition struct {
	// File identifies the implementation to load, mirroring the raw class
	// field. It is resolved against RootDirectory at instantiation time.
	File string

	// RootDirectory is the directory of the defining config file.
	RootDirectory string

	// ConstructorMethod names an optional factory method to invoke instead
	// of constructing the target directly.
	ConstructorMethod string

	// Arguments are the constructor-injection arguments, in order.
	Arguments []any

	// Calls are the setter-injection entries, applied in order after
	// construction.
	Calls []MethodCall

	// Properties are the property-injection values.
	Properties map[string]any

	// IsObject and IsFunction distinguish how the target is treated:
	// a class/instance versus a factory function.
	IsObject   bool
	IsFunction bool

	// IsSingleton marks the service as cached after first instantiation.
	// It defaults to true when the raw record omitted it.
	IsSingleton bool

	// Tags are the service annotations. Duplicate names are permitted.
	Tags []Tag

	// Namespace is the fully composed dotted prefix active when the
	// definition was declared. May be empty.
	Namespace string
}

// NewDefinition normalizes one raw service record into a Definition. The
// mapping is verbatim except for the defaults: isSingleton becomes true when
// the raw record omits it, and tags default to an empty sequence. The
// function is pure and performs no I/O.
func NewDefinition(raw RawServiceRecord, rootDirectory, namespace string) *Definition {
	def := &Definition{
		File:              raw.Class,
		RootDirectory:     rootDirectory,
		ConstructorMethod: raw.ConstructorMethod,
		Arguments:         append([]any(nil), raw.Arguments...),
		Calls:             append([]MethodCall(nil), raw.Calls...),
		Properties:        make(map[string]any, len(raw.Properties)),
		IsObject:          raw.IsObject,
		IsFunction:        raw.IsFunction,
		IsSingleton:       true,
		Tags:              make([]Tag, 0, len(raw.Tags)),
		Namespace:         namespace,
	}
	for key, value := range raw.Properties {
		def.Properties[key] = value
	}
	def.Tags = append(def.Tags, raw.Tags...)
	if raw.IsSingleton != nil {
		def.IsSingleton = *raw.IsSingleton
	}
	return def
}

// AddMethodCall appends one setter-injection entry.
func (d *Definition) AddMethodCall(method string, args []any) error {
	if strings.TrimSpace(method) == "" {
		return fmt.Errorf("%w: %q", ErrInvalidMethodName, method)
	}
	d.Calls = append(d.Calls, MethodCall{Method: method, Args: args})
	return nil
}

// SetMethodCalls applies AddMethodCall for each entry in order. The first
// failure aborts the remaining batch; entries already applied are not rolled
// back.
func (d *Definition) SetMethodCalls(calls []MethodCall) error {
	for _, call := range calls {
		if err := d.AddMethodCall(call.Method, call.Args); err != nil {
			return err
		}
	}
	return nil
}

// HasMethodCall reports whether any existing call entry targets method.
func (d *Definition) HasMethodCall(method string) bool {
	for _, call := range d.Calls {
		if call.Method == method {
			return true
		}
	}
	return false
}

// GetTag returns the first tag with the given name. Tag names are not
// unique; later duplicates are reachable by scanning Tags directly.
func (d *Definition) GetTag(name string) (Tag, error) {
	for _, tag := range d.Tags {
		if tag.Name == name {
			return tag, nil
		}
	}
	return Tag{}, fmt.Errorf("%w: %s", ErrTagNotFound, name)
}

// HasTag reports whether any tag carries the given name.
func (d *Definition) HasTag(name string) bool {
	_, err := d.GetTag(name)
	return err == nil
}
