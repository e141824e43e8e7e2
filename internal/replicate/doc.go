// Package replicate loads replicate result archives.
//
// A replicate is one independent model run saved as an npz archive. The
// loader extracts a single named array from each archive and converts it to
// a flat row-major float64 slice. Files that lack the array or cannot be
// parsed are reported as Failures next to the loaded replicates; they never
// abort a directory scan.
package replicate
