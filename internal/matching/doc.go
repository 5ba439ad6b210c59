// Package matching clusters raw payer detail rows into canonical payers by
// name similarity and flags near misses for manual review.
package matching
