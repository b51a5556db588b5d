// Package detection locates bubbles and the answer grid on a binarized sheet.
//
// # Circle Detection
//
// DetectCircles runs a circular Hough transform over the boundary pixels of an
// imaging.BinaryMask. The radius range, minimum center separation and vote
// threshold encode the expected print geometry of the sheet and come from
// configuration, not literals.
//
// # Grid Localization
//
// LocateGrid finds the largest rectangular frame on the sheet so that circles
// detected in headers, logos or margins can be discarded with FilterInside.
//
// # Coordinate System
//
// All coordinates use the mask's convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// # Limitations
//
// These algorithms assume an upright, roughly fronto-parallel photo. Strong
// perspective turns bubbles into ellipses that the transform scores poorly,
// and a skewed grid frame fails the rectangularity test.
package detection
