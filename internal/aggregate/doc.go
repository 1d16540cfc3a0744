// Package aggregate derives dashboard statistics from a transaction list.
//
// Every function here is pure: it reads the slice it is given, never mutates
// it, and returns freshly allocated results. Nothing is cached between calls.
package aggregate
