// Package taxonomy holds the pure, page-independent pieces of payer grouping:
// identifier normalization, flattening of the group forest into a selectable
// list, the registry of known groups, the per-page grouping index and the
// GroupSelection variant used by the assignment UI.
//
// Nothing in this package performs I/O. The reconcile package owns the
// remote calls and feeds acknowledged results into the Registry.
package taxonomy
