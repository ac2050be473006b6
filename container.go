package wirebox

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/golobby/cast"
)

// FactoryFunc constructs one service instance. The definition's File field
// selects the factory; arguments arrive with parameter and service
// references already resolved.
type FactoryFunc func(ctx context.Context, definition *Definition, args []any) (any, error)

// Container is the object-dependency registry populated by a build. It
// implements Sink with last-write-wins semantics, and doubles as the runtime
// side of the system: factories registered against definition files let it
// instantiate services with constructor, setter, and property injection,
// caching singletons after first construction.
//
// A container is exclusively owned by one build call while being populated.
// The runtime accessors are safe for concurrent use afterwards.
type Container struct {
	mu          sync.RWMutex
	parameters  map[string]any
	definitions map[string]*Definition
	factories   map[string]FactoryFunc
	instances   map[string]any
	logger      Logger
}

// NewContainer creates an empty container. The logger may be nil.
func NewContainer(logger Logger) *Container {
	return &Container{
		parameters:  make(map[string]any),
		definitions: make(map[string]*Definition),
		factories:   make(map[string]FactoryFunc),
		instances:   make(map[string]any),
		logger:      logger,
	}
}

// SetParameter registers a named parameter, overwriting any earlier value.
func (c *Container) SetParameter(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parameters[name] = value
}

// SetDefinition registers a service definition, overwriting any earlier one
// with the same name.
func (c *Container) SetDefinition(name string, definition *Definition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.definitions[name] = definition
}

// Parameter returns the named parameter value.
func (c *Container) Parameter(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.parameters[name]
	return value, ok
}

// Definition returns the named service definition.
func (c *Container) Definition(name string) (*Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	definition, ok := c.definitions[name]
	return definition, ok
}

// ParameterNames returns the registered parameter names in lexical order.
func (c *Container) ParameterNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.parameters)
}

// DefinitionNames returns the registered definition names in lexical order.
func (c *Container) DefinitionNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.definitions)
}

// DefinitionsByTag returns every definition carrying a tag with the given
// name, ordered by definition name.
func (c *Container) DefinitionsByTag(tagName string) []*Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var matched []*Definition
	for _, name := range sortedKeys(c.definitions) {
		if c.definitions[name].HasTag(tagName) {
			matched = append(matched, c.definitions[name])
		}
	}
	return matched
}

// ParameterString returns the named parameter coerced to a string.
func (c *Container) ParameterString(name string) (string, error) {
	value, err := c.parameterAs(name, reflect.TypeOf(""))
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

// ParameterInt returns the named parameter coerced to an int.
func (c *Container) ParameterInt(name string) (int, error) {
	value, err := c.parameterAs(name, reflect.TypeOf(0))
	if err != nil {
		return 0, err
	}
	return value.(int), nil
}

// ParameterBool returns the named parameter coerced to a bool.
func (c *Container) ParameterBool(name string) (bool, error) {
	value, err := c.parameterAs(name, reflect.TypeOf(false))
	if err != nil {
		return false, err
	}
	return value.(bool), nil
}

// parameterAs fetches a parameter and converts it to the target type.
// Values already of the target type pass through; JSON numbers arrive as
// float64 and are narrowed; everything else goes through string conversion.
func (c *Container) parameterAs(name string, target reflect.Type) (any, error) {
	raw, ok := c.Parameter(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrParameterNotFound, name)
	}

	value := reflect.ValueOf(raw)
	if value.IsValid() && value.Type() == target {
		return raw, nil
	}
	if value.IsValid() && value.CanConvert(target) && value.Kind() != reflect.String {
		return value.Convert(target).Interface(), nil
	}

	converted, err := cast.FromType(fmt.Sprintf("%v", raw), target)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParameterCastFailed, name, err)
	}
	return converted, nil
}

// RegisterFactory associates a factory with a definition file. Go code
// cannot be loaded by path at runtime, so every definition file that should
// be instantiable needs a factory registered against it.
func (c *Container) RegisterFactory(file string, factory FactoryFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[file] = factory
}

// Instance returns the named service, constructing it on first use.
// Construction resolves argument references ("%name%" to a parameter,
// "@name" to another service instance), invokes the factory registered for
// the definition's file, applies the setter-injection calls in order, sets
// the injected properties, and caches the result when the definition is a
// singleton.
func (c *Container) Instance(ctx context.Context, name string) (any, error) {
	definition, ok := c.Definition(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDefinitionNotFound, name)
	}

	if definition.IsSingleton {
		c.mu.RLock()
		cached, hit := c.instances[name]
		c.mu.RUnlock()
		if hit {
			return cached, nil
		}
	}

	c.mu.RLock()
	factory, ok := c.factories[definition.File]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s (service %s)", ErrFactoryNotRegistered, definition.File, name)
	}

	args, err := c.resolveArgs(ctx, definition.Arguments)
	if err != nil {
		return nil, fmt.Errorf("service %s: %w", name, err)
	}

	instance, err := factory(ctx, definition, args)
	if err != nil {
		return nil, fmt.Errorf("service %s: %w", name, err)
	}

	for _, call := range definition.Calls {
		callArgs, err := c.resolveArgs(ctx, call.Args)
		if err != nil {
			return nil, fmt.Errorf("service %s call %s: %w", name, call.Method, err)
		}
		if err = invokeMethod(instance, call.Method, callArgs); err != nil {
			return nil, fmt.Errorf("service %s: %w", name, err)
		}
	}

	if err = c.applyProperties(ctx, instance, definition.Properties); err != nil {
		return nil, fmt.Errorf("service %s: %w", name, err)
	}

	if definition.IsSingleton {
		c.mu.Lock()
		c.instances[name] = instance
		c.mu.Unlock()
	}

	if c.logger != nil {
		c.logger.Debug("Service instantiated", "service", name, "singleton", definition.IsSingleton)
	}
	return instance, nil
}

// resolveArgs replaces parameter references (%name%) and service references
// (@name) in an argument list with their resolved values.
func (c *Container) resolveArgs(ctx context.Context, args []any) ([]any, error) {
	resolved := make([]any, len(args))
	for i, arg := range args {
		ref, ok := arg.(string)
		if !ok {
			resolved[i] = arg
			continue
		}
		switch {
		case len(ref) > 2 && strings.HasPrefix(ref, "%") && strings.HasSuffix(ref, "%"):
			paramName := ref[1 : len(ref)-1]
			value, exists := c.Parameter(paramName)
			if !exists {
				return nil, fmt.Errorf("%w: %s", ErrParameterNotFound, paramName)
			}
			resolved[i] = value
		case strings.HasPrefix(ref, "@"):
			instance, err := c.Instance(ctx, ref[1:])
			if err != nil {
				return nil, err
			}
			resolved[i] = instance
		default:
			resolved[i] = arg
		}
	}
	return resolved, nil
}

// applyProperties assigns injected property values to exported fields of
// the instance, which must be a pointer to a struct for any properties to
// be settable.
func (c *Container) applyProperties(ctx context.Context, instance any, properties map[string]any) error {
	if len(properties) == 0 {
		return nil
	}

	value := reflect.ValueOf(instance)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: instance is %T", ErrPropertyNotSettable, instance)
	}
	target := value.Elem()

	for _, name := range sortedKeys(properties) {
		field := target.FieldByName(name)
		if !field.IsValid() || !field.CanSet() {
			return fmt.Errorf("%w: %s on %T", ErrPropertyNotSettable, name, instance)
		}

		resolved, err := c.resolveArgs(ctx, []any{properties[name]})
		if err != nil {
			return err
		}
		assigned := reflect.ValueOf(resolved[0])
		if !assigned.IsValid() {
			field.Set(reflect.Zero(field.Type()))
			continue
		}
		if !assigned.Type().AssignableTo(field.Type()) {
			if !assigned.Type().ConvertibleTo(field.Type()) {
				return fmt.Errorf("%w: %s wants %s, got %T", ErrPropertyNotSettable, name, field.Type(), resolved[0])
			}
			assigned = assigned.Convert(field.Type())
		}
		field.Set(assigned)
	}
	return nil
}

// invokeMethod calls the named method on the instance. A trailing error
// return is propagated; other return values are discarded.
func invokeMethod(instance any, method string, args []any) error {
	m := reflect.ValueOf(instance).MethodByName(method)
	if !m.IsValid() {
		return fmt.Errorf("%w: %s on %T", ErrMethodNotFound, method, instance)
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(m.Type().In(i))
			continue
		}
		in[i] = reflect.ValueOf(arg)
	}

	out := m.Call(in)
	if len(out) > 0 {
		if err, ok := out[len(out)-1].Interface().(error); ok && err != nil {
			return err
		}
	}
	return nil
}
