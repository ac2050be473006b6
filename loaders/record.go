package loaders

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Record is the parsed content of one configuration file. Every field is
// optional; a missing field behaves exactly like an empty one.
type Record struct {
	Namespace  string                `json:"namespace" yaml:"namespace" toml:"namespace"`
	Imports    []string              `json:"imports" yaml:"imports" toml:"imports"`
	Parameters map[string]any        `json:"parameters" yaml:"parameters" toml:"parameters"`
	Services   map[string]RawService `json:"services" yaml:"services" toml:"services"`
}

// RawService is one service entry exactly as authored. Defaults are not
// applied here; normalization happens once, centrally, when a Definition is
// built from the raw record.
type RawService struct {
	Class             string         `json:"class" yaml:"class" toml:"class"`
	ConstructorMethod string         `json:"constructorMethod" yaml:"constructorMethod" toml:"constructorMethod"`
	Arguments         []any          `json:"arguments" yaml:"arguments" toml:"arguments"`
	Calls             []MethodCall   `json:"calls" yaml:"calls" toml:"calls"`
	Properties        map[string]any `json:"properties" yaml:"properties" toml:"properties"`
	IsObject          bool           `json:"isObject" yaml:"isObject" toml:"isObject"`
	IsFunction        bool           `json:"isFunction" yaml:"isFunction" toml:"isFunction"`
	IsSingleton       *bool          `json:"isSingleton" yaml:"isSingleton" toml:"isSingleton"`
	Tags              []Tag          `json:"tags" yaml:"tags" toml:"tags"`
}

// MethodCall is one setter-injection entry. Config files may author it
// either as an object ({"method": "init", "args": [1]}) or in the compact
// tuple form (["init", [1]]).
type MethodCall struct {
	Method string `json:"method" yaml:"method" toml:"method"`
	Args   []any  `json:"args" yaml:"args" toml:"args"`
}

// UnmarshalJSON accepts both the object and the tuple form.
func (m *MethodCall) UnmarshalJSON(data []byte) error {
	type plain MethodCall
	var obj plain
	if err := json.Unmarshal(data, &obj); err == nil {
		*m = MethodCall(obj)
		return nil
	}

	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("%w: %w", ErrMethodCallShape, err)
	}
	return m.fromTuple(func(raw json.RawMessage, target any) error {
		return json.Unmarshal(raw, target)
	}, tuple)
}

// UnmarshalYAML accepts both the object and the tuple form.
func (m *MethodCall) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.MappingNode:
		type plain MethodCall
		var obj plain
		if err := value.Decode(&obj); err != nil {
			return fmt.Errorf("%w: %w", ErrMethodCallShape, err)
		}
		*m = MethodCall(obj)
		return nil
	case yaml.SequenceNode:
		if len(value.Content) != 2 {
			return fmt.Errorf("%w: got %d elements", ErrMethodCallShape, len(value.Content))
		}
		if err := value.Content[0].Decode(&m.Method); err != nil {
			return fmt.Errorf("%w: %w", ErrMethodCallShape, err)
		}
		if err := value.Content[1].Decode(&m.Args); err != nil {
			return fmt.Errorf("%w: %w", ErrMethodCallShape, err)
		}
		return nil
	default:
		return ErrMethodCallShape
	}
}

// UnmarshalTOML accepts both the table and the tuple form.
func (m *MethodCall) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case map[string]any:
		if method, ok := v["method"].(string); ok {
			m.Method = method
		}
		if args, ok := v["args"].([]any); ok {
			m.Args = args
		}
		return nil
	case []any:
		return m.fromAnyTuple(v)
	default:
		return ErrMethodCallShape
	}
}

func (m *MethodCall) fromTuple(decode func(json.RawMessage, any) error, tuple []json.RawMessage) error {
	if len(tuple) != 2 {
		return fmt.Errorf("%w: got %d elements", ErrMethodCallShape, len(tuple))
	}
	if err := decode(tuple[0], &m.Method); err != nil {
		return fmt.Errorf("%w: %w", ErrMethodCallShape, err)
	}
	if err := decode(tuple[1], &m.Args); err != nil {
		return fmt.Errorf("%w: %w", ErrMethodCallShape, err)
	}
	return nil
}

func (m *MethodCall) fromAnyTuple(tuple []any) error {
	if len(tuple) != 2 {
		return fmt.Errorf("%w: got %d elements", ErrMethodCallShape, len(tuple))
	}
	method, ok := tuple[0].(string)
	if !ok {
		return fmt.Errorf("%w: method name is %T", ErrMethodCallShape, tuple[0])
	}
	args, ok := tuple[1].([]any)
	if !ok {
		return fmt.Errorf("%w: argument list is %T", ErrMethodCallShape, tuple[1])
	}
	m.Method = method
	m.Args = args
	return nil
}

// Tag is one annotation on a service entry. The name is required; every
// other authored key is kept verbatim in Attributes.
type Tag struct {
	Name       string
	Attributes map[string]any
}

// UnmarshalJSON pulls the name out of the tag object and keeps the
// remaining keys as attributes.
func (t *Tag) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrTagShape, err)
	}
	return t.fromMap(raw)
}

// UnmarshalYAML pulls the name out of the tag mapping and keeps the
// remaining keys as attributes.
func (t *Tag) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]any
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %w", ErrTagShape, err)
	}
	return t.fromMap(raw)
}

// UnmarshalTOML pulls the name out of the tag table and keeps the
// remaining keys as attributes.
func (t *Tag) UnmarshalTOML(data any) error {
	raw, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: got %T", ErrTagShape, data)
	}
	return t.fromMap(raw)
}

func (t *Tag) fromMap(raw map[string]any) error {
	name, ok := raw["name"].(string)
	if !ok || name == "" {
		return ErrTagShape
	}
	t.Name = name
	for key, value := range raw {
		if key == "name" {
			continue
		}
		if t.Attributes == nil {
			t.Attributes = make(map[string]any)
		}
		t.Attributes[key] = value
	}
	return nil
}

// Attribute returns the named tag attribute, or false when the tag doesn't
// carry it.
func (t Tag) Attribute(key string) (any, bool) {
	value, ok := t.Attributes[key]
	return value, ok
}
