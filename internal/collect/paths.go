package collect

import (
	"iter"
	"slices"

	"github.com/lakshaymaurya-felt/sweeper/internal/rules"
)

// paths resolves a rule's path spec into the concrete paths to size.
func paths(spec rules.PathSpec) iter.Seq[string] {
	switch spec.Kind() {
	case rules.KindProvider:
		if p := spec.Provider(); p.Enumerate != nil {
			return p.Enumerate
		}
		return func(func(string) bool) {}
	default:
		return slices.Values(spec.Literals())
	}
}
