// Package normalisers holds the parsers that turn raw payloads fetched from
// a connector into searchable content. The diff subpackage tokenizes unified
// diffs into their changed lines.
package normalisers
