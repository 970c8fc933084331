// Package version reports build version information, set via -ldflags or
// read from embedded VCS metadata.
package version
