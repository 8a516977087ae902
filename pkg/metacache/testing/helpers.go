package testing

import "github.com/marmos91/metacache/pkg/metacache"

// handleOf converts a raw uint64 collected from an earlier Add back into a
// metacache.Handle. metacache.Handle is exported as a distinct type
// specifically so callers cannot accidentally pass an arbitrary integer in
// its place; the suite stores handles as uint64 within a subtest purely
// for convenience and converts back at the call site.
func handleOf(raw uint64) metacache.Handle {
	return metacache.Handle(raw)
}
