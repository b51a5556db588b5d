// Package ocr reads the printed identifier in a sheet's header using Tesseract.
//
// The engine is reached through gosseract/v2, which needs the Tesseract
// library and its language data installed:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Header text is a single short line (a roll number or sheet code), so the
// reader runs in single-line mode with a letters-and-digits whitelist. Images
// are handed over as in-memory PNG bytes; nothing is written to disk.
//
// Callers depend on the TextReader interface so pipelines and tests can run
// without Tesseract.
package ocr
