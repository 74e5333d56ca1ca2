// Package fs abstracts the file operations behind atomic local writes so
// that tests can inject failures.
//
// LocalFS forwards to the os package. FaultyFS wraps another FileSystem and
// fails writes, syncs, closes or renames according to per-name rules.
package fs
