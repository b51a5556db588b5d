// Package server exposes the OMR pipeline as MCP (Model Context Protocol) tools.
//
// The protocol layer comes from the official go-sdk; this package only
// declares the tools and adapts their inputs and outputs to the pipeline.
//
// # Transports
//
//   - stdio (Run): one client, requests on stdin, responses on stdout
//   - streamable HTTP (RunHTTP): for clients that cannot spawn a process
//
// Logs never go to stdout, which belongs to the protocol.
//
// # Available Tools
//
//   - omr_process: read the answers off a sheet image
//   - omr_score: read a sheet and grade it against an answer key
//   - omr_detect_circles: list detected bubbles and rows, for layout tuning
//   - omr_annotate: draw detected bubbles and chosen answers on the sheet
//
// Every tool result carries the sheet provenance. A "fallback" sheet was
// guessed because no bubble could be found and must not be trusted as a
// reading of the student's answers.
package server
