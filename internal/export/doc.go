// Package export writes aggregated results: R data files, CSV mirrors, the
// grid-shape note, heat-map images and run manifests.
package export
