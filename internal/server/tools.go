package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ironsheep/omr-grader-mcp/internal/detection"
	"github.com/ironsheep/omr-grader-mcp/internal/scoring"
)

// ImageInput names the sheet image a tool works on.
type ImageInput struct {
	Path string `json:"path" jsonschema:"absolute path to the answer sheet image (PNG, JPEG, GIF, BMP, TIFF or WebP)"`
}

// ScoreInput is the input of omr_score.
type ScoreInput struct {
	Path string `json:"path" jsonschema:"absolute path to the answer sheet image"`
	Key  string `json:"key,omitempty" jsonschema:"answer key, either compact (ABCD-A...) or comma separated; '-' marks a blank entry. Defaults to the A,B,C,D demo key"`
}

// SheetOutput describes a processed sheet.
type SheetOutput struct {
	RunID string `json:"run_id"`

	// Answers holds one entry per question: A-D, or "" for no answer.
	Answers    []string `json:"answers"`
	Attempted  int      `json:"attempted"`
	Provenance string   `json:"provenance"`

	FallbackUsed    bool              `json:"fallback_used"`
	CirclesDetected int               `json:"circles_detected"`
	RowsDetected    int               `json:"rows_detected"`
	SheetID         string            `json:"sheet_id,omitempty"`
	Grid            *detection.Bounds `json:"grid,omitempty"`
	Width           int               `json:"width"`
	Height          int               `json:"height"`
}

// ScoreOutput is a processed sheet with its score.
type ScoreOutput struct {
	Sheet SheetOutput    `json:"sheet"`
	Score scoring.Result `json:"score"`
}

// RowOutput is one detected row of bubbles.
type RowOutput struct {
	Circles []detection.Circle `json:"circles"`
	Count   int                `json:"count"`
}

// DetectCirclesOutput lists what the detector found, before classification.
type DetectCirclesOutput struct {
	Circles []detection.Circle `json:"circles"`
	Count   int                `json:"count"`
	Rows    []RowOutput        `json:"rows"`

	// Answers is the classification of the rows, without padding or fallback.
	Answers []string          `json:"answers"`
	Grid    *detection.Bounds `json:"grid,omitempty"`
}

// AnnotateOutput is the annotated sheet as base64 PNG.
type AnnotateOutput struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Markers     int    `json:"markers"`
	Selected    int    `json:"selected"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "omr_process",
		Description: "Read the marked answers from a photographed bubble answer sheet. " +
			"Returns one entry per question (A-D, or empty for no answer) and a provenance: " +
			"'fallback' means no bubbles were found and the answers were guessed.",
	}, s.handleProcess)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "omr_score",
		Description: "Read a bubble answer sheet and grade it against an answer key: " +
			"+3 per correct answer, -1 per wrong answer, 0 when unanswered.",
	}, s.handleScore)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "omr_detect_circles",
		Description: "List the bubbles detected on a sheet and how they were grouped into rows. " +
			"Use this to check that the configured radius range and row tolerance fit a sheet layout.",
	}, s.handleDetectCircles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "omr_annotate",
		Description: "Draw the detected bubbles (grey) and the selected answer of each question " +
			"(coloured, labelled question:option) on the sheet and return it as base64 PNG.",
	}, s.handleAnnotate)
}
