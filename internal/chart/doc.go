// Package chart embeds native Excel charts (bar, line, pie) into
// workbook sheets written from tables. Series ranges are computed from
// the table's position on the sheet, so a chart always reflects the
// written data.
package chart
