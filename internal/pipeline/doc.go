// Package pipeline runs a photographed answer sheet through every stage, from
// decoding to a validated answer sheet and an optional score.
//
// A Processor holds only configuration and injected collaborators; all
// intermediate data (image, mask, circles, rows) is created per call, so one
// Processor may grade many sheets concurrently as long as no shared
// RandomSource is injected.
package pipeline
