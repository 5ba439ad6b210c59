// Package reconcile keeps three remotely paginated views (unmapped details,
// payers, the group forest) and the group registry consistent while operator
// mutations are applied against the payer store.
//
// Every mutation is commit-after-acknowledgment: local state is patched only
// once the store has accepted the change, so a failed call leaves nothing to
// roll back. Operations may run concurrently; when two target the same payer
// the acknowledgment that arrives last decides the visible state.
package reconcile
