// Package dataset defines the in-memory tabular model shared by every
// processing step: a Table of named columns over typed cells, plus readers
// that build tables from CSV and Excel files.
//
// Column names are unique within a table and rows are always rectangular;
// both invariants are enforced on construction and on append, so consumers
// can index cells by (row, column) without bounds anxiety.
package dataset
