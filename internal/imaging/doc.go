// Package imaging turns a photographed answer sheet into a binary mask.
//
// This package covers the raster side of the OMR pipeline: decoding the
// uploaded image, normalizing its size, reducing it to one intensity channel,
// adaptive thresholding and morphological cleanup. It also renders annotated
// copies of a sheet for inspection.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// BinaryMask coordinates are always relative to the mask origin, regardless of
// the bounds of the image it was derived from.
//
// # Thread Safety
//
// Every function is stateless. A BinaryMask is never modified after Binarize
// returns it, so it can be read from several goroutines.
//
// # Error Handling
//
// Load and Decode return *ImageReadError for any input that cannot be read or
// decoded. Callers detect it with errors.As.
package imaging
