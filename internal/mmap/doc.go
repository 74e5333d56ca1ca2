// Package mmap maps dataset files read-only into memory.
//
// A Mapping owns the mapped bytes until Close. Empty files map to a nil slice
// without a system call.
package mmap
