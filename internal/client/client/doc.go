// Package client contains the fieldctl transport to the server and the
// bootstrap of the local SQLite database.
package client
