// Package transform provides the row-level reshaping operations used by
// the pipeline's transform stage: filtering, derived columns, and
// group-by aggregation.
package transform
