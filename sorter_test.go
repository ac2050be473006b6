package wirebox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func desc(path string, kind FileKind, depth int) FileDescriptor {
	return FileDescriptor{Path: path, Directory: "/", Depth: depth, Kind: kind}
}

func sortedPaths(descriptors []FileDescriptor) []string {
	paths := make([]string, len(descriptors))
	for i, d := range descriptors {
		paths[i] = d.Path
	}
	return paths
}

func TestSortHierarchy_DeeperServiceFilesFirst(t *testing.T) {
	sorted := SortHierarchy([]FileDescriptor{
		desc("root", FileKindService, 0),
		desc("leaf", FileKindService, 2),
		desc("mid", FileKindService, 1),
	})

	assert.Equal(t, []string{"leaf", "mid", "root"}, sortedPaths(sorted))
}

func TestSortHierarchy_GroupOrder(t *testing.T) {
	sorted := SortHierarchy([]FileDescriptor{
		desc("params", FileKindParameter, 2),
		desc("env", FileKindEnvironmentService, 1),
		desc("svc", FileKindService, 0),
	})

	// Services first, then environment services, parameters always last
	// regardless of depth.
	assert.Equal(t, []string{"svc", "env", "params"}, sortedPaths(sorted))
}

func TestSortHierarchy_StableWithinEqualDepth(t *testing.T) {
	sorted := SortHierarchy([]FileDescriptor{
		desc("a", FileKindService, 1),
		desc("b", FileKindService, 1),
		desc("c", FileKindService, 1),
	})

	assert.Equal(t, []string{"a", "b", "c"}, sortedPaths(sorted))
}

func TestSortHierarchy_ParametersKeepDiscoveryOrder(t *testing.T) {
	sorted := SortHierarchy([]FileDescriptor{
		desc("p-shallow", FileKindParameter, 0),
		desc("p-deep", FileKindParameter, 3),
		desc("p-mid", FileKindParameter, 1),
	})

	assert.Equal(t, []string{"p-shallow", "p-deep", "p-mid"}, sortedPaths(sorted))
}

func TestSortHierarchy_EnvironmentGroupSortedByDepth(t *testing.T) {
	sorted := SortHierarchy([]FileDescriptor{
		desc("env-root", FileKindEnvironmentService, 0),
		desc("svc-root", FileKindService, 0),
		desc("env-leaf", FileKindEnvironmentService, 1),
		desc("svc-leaf", FileKindService, 1),
	})

	assert.Equal(t, []string{"svc-leaf", "svc-root", "env-leaf", "env-root"}, sortedPaths(sorted))
}

func TestSortHierarchy_LosslessReordering(t *testing.T) {
	input := []FileDescriptor{
		desc("a", FileKindParameter, 0),
		desc("b", FileKindService, 4),
		desc("c", FileKindEnvironmentService, 2),
		desc("d", FileKindService, 0),
	}

	sorted := SortHierarchy(input)
	require.Len(t, sorted, len(input))

	seen := make(map[string]bool)
	for _, d := range sorted {
		seen[d.Path] = true
	}
	for _, d := range input {
		assert.True(t, seen[d.Path], "descriptor %s lost in sort", d.Path)
	}
}

func TestSortHierarchy_EmptyInput(t *testing.T) {
	assert.Empty(t, SortHierarchy(nil))
}
