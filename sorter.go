package wirebox

import "sort"

// SortHierarchy reorders discovered descriptors into processing order. It is
// a pure reordering: nothing is filtered, nothing is added.
//
// Later-processed entries win name collisions in the sink, so the order
// encodes the precedence rules: within the service group (and, separately,
// the environment-service group) deeper files come first and shallower files
// later, letting root-level configuration override subdirectory
// configuration. The environment-service group follows the service group so
// environment overrides beat the base definitions, and parameter files come
// last of all, in discovery order, untouched by depth.
func SortHierarchy(descriptors []FileDescriptor) []FileDescriptor {
	var services, envServices, parameters []FileDescriptor
	for _, desc := range descriptors {
		switch desc.Kind {
		case FileKindEnvironmentService:
			envServices = append(envServices, desc)
		case FileKindParameter:
			parameters = append(parameters, desc)
		default:
			services = append(services, desc)
		}
	}

	sortDeepestFirst(services)
	sortDeepestFirst(envServices)

	sorted := make([]FileDescriptor, 0, len(descriptors))
	sorted = append(sorted, services...)
	sorted = append(sorted, envServices...)
	sorted = append(sorted, parameters...)
	return sorted
}

// sortDeepestFirst orders descriptors by descending depth. The sort is
// stable, so descriptors at equal depth keep their discovery order.
func sortDeepestFirst(descriptors []FileDescriptor) {
	sort.SliceStable(descriptors, func(i, j int) bool {
		return descriptors[i].Depth > descriptors[j].Depth
	})
}
