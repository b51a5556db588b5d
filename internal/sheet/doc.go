// Package sheet turns detected bubbles into an answer sheet.
//
// The stages run in order on one sheet:
//
//  1. GroupRows clusters circles into rows by vertical proximity
//  2. Classify picks the most-filled bubble of each question
//  3. Build pads or truncates the decisions to the configured length
//  4. Validate checks length and symbol domain
//
// Fallback produces a guessed sheet when no circles were found at all. Every
// sheet carries a Provenance so a guessed sheet is never mistaken for a read one.
//
// Nothing in this package keeps state between calls.
package sheet
