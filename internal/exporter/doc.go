// Package exporter writes processed tables back to disk: CSV files with
// a UTF-8 BOM for Excel compatibility (plus a streaming variant for
// large outputs), and styled xlsx workbooks with a formatted header row,
// per-type number formats, and a frozen header pane.
package exporter
