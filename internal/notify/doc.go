// Package notify sends the outbound run notifications: an email with
// the produced report attached, delivered through SendGrid.
package notify
