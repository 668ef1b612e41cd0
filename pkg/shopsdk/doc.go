// Package shopsdk holds the wire types of the SIM shop API and a small Go
// client for it. The server's HTTP handlers and external consumers share
// these definitions so the two can never drift apart.
package shopsdk
