// Package decruft extracts a readable document, a title and a cleaned body
// fragment, from arbitrary and often malformed web HTML.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., chardet/, goquery/, etree/).
package decruft
