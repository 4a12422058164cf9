// Package models defines the client-side mirror of the API's ingredient and
// recipe representations, the auth payloads, and the local validation rules
// applied before any request leaves the client.
//
// Macro values are always server-authoritative: nothing in this package (or
// anywhere in the client) computes or adjusts them.
package models
