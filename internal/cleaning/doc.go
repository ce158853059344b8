// Package cleaning normalizes raw tables before analysis: whitespace
// trimming, blank row/column removal, header normalization, row
// de-duplication, and interquartile-range outlier flagging.
package cleaning
