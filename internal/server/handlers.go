package server

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ironsheep/omr-grader-mcp/internal/imaging"
	"github.com/ironsheep/omr-grader-mcp/internal/logger"
	"github.com/ironsheep/omr-grader-mcp/internal/pipeline"
	"github.com/ironsheep/omr-grader-mcp/internal/scoring"
	"github.com/ironsheep/omr-grader-mcp/internal/sheet"
)

var errMissingPath = errors.New("path is required")

func (s *Server) handleProcess(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ImageInput,
) (*mcp.CallToolResult, SheetOutput, error) {
	if input.Path == "" {
		return nil, SheetOutput{}, errMissingPath
	}
	res, err := s.proc.ProcessFile(input.Path)
	if err != nil {
		return nil, SheetOutput{}, err
	}
	return nil, sheetOutput(res), nil
}

func (s *Server) handleScore(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ScoreInput,
) (*mcp.CallToolResult, ScoreOutput, error) {
	if input.Path == "" {
		return nil, ScoreOutput{}, errMissingPath
	}

	key := scoring.DemoKey(s.proc.Config().TotalQuestions)
	if input.Key != "" {
		parsed, err := scoring.ParseKey(input.Key)
		if err != nil {
			return nil, ScoreOutput{}, err
		}
		key = parsed
	} else {
		logger.Debug("no answer key given, using the demo key")
	}

	graded, err := s.proc.Grade(input.Path, key)
	if err != nil {
		return nil, ScoreOutput{}, err
	}
	return nil, ScoreOutput{Sheet: sheetOutput(graded.Result), Score: graded.Score}, nil
}

func (s *Server) handleDetectCircles(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ImageInput,
) (*mcp.CallToolResult, DetectCirclesOutput, error) {
	if input.Path == "" {
		return nil, DetectCirclesOutput{}, errMissingPath
	}
	img, err := imaging.Load(input.Path)
	if err != nil {
		return nil, DetectCirclesOutput{}, err
	}
	a, err := s.proc.Analyze(img)
	if err != nil {
		return nil, DetectCirclesOutput{}, err
	}

	out := DetectCirclesOutput{
		Circles: a.Circles,
		Count:   len(a.Circles),
		Rows:    make([]RowOutput, len(a.Rows)),
		Answers: sheet.AnswerSheet(a.Codes).Strings(),
		Grid:    a.Grid,
	}
	for i, row := range a.Rows {
		out.Rows[i] = RowOutput{Circles: row, Count: len(row)}
	}
	return nil, out, nil
}

func (s *Server) handleAnnotate(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ImageInput,
) (*mcp.CallToolResult, AnnotateOutput, error) {
	if input.Path == "" {
		return nil, AnnotateOutput{}, errMissingPath
	}
	res, a, err := s.proc.AnnotateFile(input.Path)
	if err != nil {
		return nil, AnnotateOutput{}, err
	}
	return nil, AnnotateOutput{
		Width:       res.Width,
		Height:      res.Height,
		ImageBase64: res.ImageBase64,
		MimeType:    res.MimeType,
		Markers:     res.Markers,
		Selected:    sheet.Build(a.Codes, s.proc.Config().TotalQuestions).Attempted(),
	}, nil
}

func sheetOutput(res *pipeline.Result) SheetOutput {
	return SheetOutput{
		RunID:           res.RunID,
		Answers:         res.Answers.Strings(),
		Attempted:       res.Answers.Attempted(),
		Provenance:      string(res.Provenance),
		FallbackUsed:    res.FallbackUsed,
		CirclesDetected: res.CirclesDetected,
		RowsDetected:    res.RowsDetected,
		SheetID:         res.SheetID,
		Grid:            res.Grid,
		Width:           res.Width,
		Height:          res.Height,
	}
}
