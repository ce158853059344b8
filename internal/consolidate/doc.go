// Package consolidate merges many spreadsheet files into a single table:
// columns are aligned by normalized name across files, rows are
// concatenated in filename order and de-duplicated, and a left join on a
// shared key column links consolidated data to lookup tables.
package consolidate
