package wirebox

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testService struct {
	Name    string
	Retries int

	output string
	closed bool
}

func (s *testService) SetOutput(out string) { s.output = out }

func (s *testService) Fail() error { return errors.New("boom") }

type testConsumer struct {
	dep *testService
}

func newTestContainer() *Container {
	return NewContainer(nil)
}

func TestContainer_ParameterLastWriteWins(t *testing.T) {
	c := newTestContainer()
	c.SetParameter("x", 1)
	c.SetParameter("x", 2)

	value, ok := c.Parameter("x")
	require.True(t, ok)
	assert.Equal(t, 2, value)
}

func TestContainer_DefinitionLastWriteWins(t *testing.T) {
	c := newTestContainer()
	c.SetDefinition("svc", NewDefinition(RawServiceRecord{Class: "First"}, "/", ""))
	c.SetDefinition("svc", NewDefinition(RawServiceRecord{Class: "Second"}, "/", ""))

	def, ok := c.Definition("svc")
	require.True(t, ok)
	assert.Equal(t, "Second", def.File)
}

func TestContainer_Names(t *testing.T) {
	c := newTestContainer()
	c.SetParameter("b", 1)
	c.SetParameter("a", 2)
	c.SetDefinition("z", NewDefinition(RawServiceRecord{}, "/", ""))
	c.SetDefinition("y", NewDefinition(RawServiceRecord{}, "/", ""))

	assert.Equal(t, []string{"a", "b"}, c.ParameterNames())
	assert.Equal(t, []string{"y", "z"}, c.DefinitionNames())
}

func TestContainer_TypedParameters(t *testing.T) {
	c := newTestContainer()
	c.SetParameter("name", "wirebox")
	c.SetParameter("port", float64(8080)) // JSON numbers arrive as float64
	c.SetParameter("portString", "9090")
	c.SetParameter("flag", "true")

	name, err := c.ParameterString("name")
	require.NoError(t, err)
	assert.Equal(t, "wirebox", name)

	port, err := c.ParameterInt("port")
	require.NoError(t, err)
	assert.Equal(t, 8080, port)

	port, err = c.ParameterInt("portString")
	require.NoError(t, err)
	assert.Equal(t, 9090, port)

	flag, err := c.ParameterBool("flag")
	require.NoError(t, err)
	assert.True(t, flag)
}

func TestContainer_TypedParameterErrors(t *testing.T) {
	c := newTestContainer()
	c.SetParameter("notANumber", "zero")

	_, err := c.ParameterInt("absent")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParameterNotFound)

	_, err = c.ParameterInt("notANumber")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParameterCastFailed)
}

func TestContainer_DefinitionsByTag(t *testing.T) {
	c := newTestContainer()
	c.SetDefinition("b", NewDefinition(RawServiceRecord{Tags: []Tag{{Name: "handler"}}}, "/", ""))
	c.SetDefinition("a", NewDefinition(RawServiceRecord{Tags: []Tag{{Name: "handler"}}}, "/", ""))
	c.SetDefinition("c", NewDefinition(RawServiceRecord{Tags: []Tag{{Name: "other"}}}, "/", ""))

	matched := c.DefinitionsByTag("handler")
	require.Len(t, matched, 2)
	assert.Empty(t, c.DefinitionsByTag("missing"))
}

func TestContainer_InstanceSingletonCaching(t *testing.T) {
	c := newTestContainer()
	c.SetDefinition("svc", NewDefinition(RawServiceRecord{Class: "TestService"}, "/", ""))

	built := 0
	c.RegisterFactory("TestService", func(ctx context.Context, def *Definition, args []any) (any, error) {
		built++
		return &testService{}, nil
	})

	first, err := c.Instance(context.Background(), "svc")
	require.NoError(t, err)
	second, err := c.Instance(context.Background(), "svc")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, built)
}

func TestContainer_InstanceNonSingleton(t *testing.T) {
	c := newTestContainer()
	c.SetDefinition("svc", NewDefinition(RawServiceRecord{
		Class:       "TestService",
		IsSingleton: boolPtr(false),
	}, "/", ""))

	built := 0
	c.RegisterFactory("TestService", func(ctx context.Context, def *Definition, args []any) (any, error) {
		built++
		return &testService{}, nil
	})

	first, err := c.Instance(context.Background(), "svc")
	require.NoError(t, err)
	second, err := c.Instance(context.Background(), "svc")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, built)
}

func TestContainer_InstanceResolvesParameterReferences(t *testing.T) {
	c := newTestContainer()
	c.SetParameter("app.name", "wirebox")
	c.SetDefinition("svc", NewDefinition(RawServiceRecord{
		Class:     "TestService",
		Arguments: []any{"%app.name%", 3},
	}, "/", ""))

	c.RegisterFactory("TestService", func(ctx context.Context, def *Definition, args []any) (any, error) {
		return &testService{Name: args[0].(string), Retries: args[1].(int)}, nil
	})

	instance, err := c.Instance(context.Background(), "svc")
	require.NoError(t, err)

	svc := instance.(*testService)
	assert.Equal(t, "wirebox", svc.Name)
	assert.Equal(t, 3, svc.Retries)
}

func TestContainer_InstanceResolvesServiceReferences(t *testing.T) {
	c := newTestContainer()
	c.SetDefinition("dep", NewDefinition(RawServiceRecord{Class: "TestService"}, "/", ""))
	c.SetDefinition("consumer", NewDefinition(RawServiceRecord{
		Class:     "TestConsumer",
		Arguments: []any{"@dep"},
	}, "/", ""))

	c.RegisterFactory("TestService", func(ctx context.Context, def *Definition, args []any) (any, error) {
		return &testService{}, nil
	})
	c.RegisterFactory("TestConsumer", func(ctx context.Context, def *Definition, args []any) (any, error) {
		return &testConsumer{dep: args[0].(*testService)}, nil
	})

	instance, err := c.Instance(context.Background(), "consumer")
	require.NoError(t, err)

	consumer := instance.(*testConsumer)
	require.NotNil(t, consumer.dep)

	// The dependency is the cached singleton.
	dep, err := c.Instance(context.Background(), "dep")
	require.NoError(t, err)
	assert.Same(t, dep, consumer.dep)
}

func TestContainer_InstanceAppliesCalls(t *testing.T) {
	c := newTestContainer()
	c.SetDefinition("svc", NewDefinition(RawServiceRecord{
		Class: "TestService",
		Calls: []MethodCall{{Method: "SetOutput", Args: []any{"stdout"}}},
	}, "/", ""))

	c.RegisterFactory("TestService", func(ctx context.Context, def *Definition, args []any) (any, error) {
		return &testService{}, nil
	})

	instance, err := c.Instance(context.Background(), "svc")
	require.NoError(t, err)
	assert.Equal(t, "stdout", instance.(*testService).output)
}

func TestContainer_InstanceCallErrorPropagates(t *testing.T) {
	c := newTestContainer()
	c.SetDefinition("svc", NewDefinition(RawServiceRecord{
		Class: "TestService",
		Calls: []MethodCall{{Method: "Fail"}},
	}, "/", ""))

	c.RegisterFactory("TestService", func(ctx context.Context, def *Definition, args []any) (any, error) {
		return &testService{}, nil
	})

	_, err := c.Instance(context.Background(), "svc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestContainer_InstanceUnknownMethod(t *testing.T) {
	c := newTestContainer()
	c.SetDefinition("svc", NewDefinition(RawServiceRecord{
		Class: "TestService",
		Calls: []MethodCall{{Method: "Nope"}},
	}, "/", ""))

	c.RegisterFactory("TestService", func(ctx context.Context, def *Definition, args []any) (any, error) {
		return &testService{}, nil
	})

	_, err := c.Instance(context.Background(), "svc")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMethodNotFound)
}

func TestContainer_InstanceAppliesProperties(t *testing.T) {
	c := newTestContainer()
	c.SetParameter("retries", float64(5))
	c.SetDefinition("svc", NewDefinition(RawServiceRecord{
		Class: "TestService",
		Properties: map[string]any{
			"Name":    "configured",
			"Retries": "%retries%",
		},
	}, "/", ""))

	c.RegisterFactory("TestService", func(ctx context.Context, def *Definition, args []any) (any, error) {
		return &testService{}, nil
	})

	instance, err := c.Instance(context.Background(), "svc")
	require.NoError(t, err)

	svc := instance.(*testService)
	assert.Equal(t, "configured", svc.Name)
	assert.Equal(t, 5, svc.Retries)
}

func TestContainer_InstanceUnknownDefinition(t *testing.T) {
	c := newTestContainer()
	_, err := c.Instance(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDefinitionNotFound)
}

func TestContainer_InstanceMissingFactory(t *testing.T) {
	c := newTestContainer()
	c.SetDefinition("svc", NewDefinition(RawServiceRecord{Class: "Unbound"}, "/", ""))

	_, err := c.Instance(context.Background(), "svc")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFactoryNotRegistered)
}

func TestContainer_InstanceMissingParameterReference(t *testing.T) {
	c := newTestContainer()
	c.SetDefinition("svc", NewDefinition(RawServiceRecord{
		Class:     "TestService",
		Arguments: []any{"%absent%"},
	}, "/", ""))
	c.RegisterFactory("TestService", func(ctx context.Context, def *Definition, args []any) (any, error) {
		return &testService{}, nil
	})

	_, err := c.Instance(context.Background(), "svc")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParameterNotFound)
}
