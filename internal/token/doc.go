// Package token turns formula source text into the flat token stream that
// formulas are built from.
//
// Scanning is delegated to the HCL expression scanner (hclsyntax), so numbers
// and identifiers follow HCL's lexical rules. The stream keeps only four kinds
// of token: operators, integer literals, decimal literals and stock references.
// A stock whose name is not a valid identifier (for example "Phone Screen") is
// referenced with a quoted string.
//
// Note that HCL identifiers may contain '-', so "onsites-1" scans as a single
// reference. Separate the operator with spaces: "onsites - 1".
package token
