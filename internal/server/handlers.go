package server

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/mitchellh/mapstructure"

	"github.com/spigell/resume-matcher/internal/ingestion"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/scoring"
)

// analyzeRequest mirrors the loose payload clients send: size may arrive as a
// number or a numeric string.
type analyzeRequest struct {
	JobDescription string           `mapstructure:"jobDescription"`
	File           scoring.FileMeta `mapstructure:"file"`
}

type analyzeResponse struct {
	ID string `json:"id"`
	*scoring.Report
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// POST /api/uploads
func (s *Server) uploadJSON(c *fiber.Ctx) error {
	var up ingestion.Upload
	if err := json.Unmarshal(c.Body(), &up); err != nil {
		return invalid("request body must be a JSON object with name, type and data")
	}

	meta, err := s.deps.Uploads.Save(c.UserContext(), up)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, meta)
}

// POST /api/uploads/form
func (s *Server) uploadForm(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return invalid("multipart field \"file\" is required")
	}
	if header.Size > s.deps.Uploads.MaxSize() {
		return fmt.Errorf("%w: %d bytes, limit %d", ingestion.ErrTooLarge, header.Size, s.deps.Uploads.MaxSize())
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("open form file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.deps.Uploads.MaxSize()+1))
	if err != nil {
		return fmt.Errorf("read form file: %w", err)
	}

	meta, err := s.deps.Uploads.SaveBytes(c.UserContext(), header.Filename, header.Header.Get(fiber.HeaderContentType), data)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, meta)
}

// POST /api/analyze
func (s *Server) analyze(c *fiber.Ctx) error {
	var raw map[string]any
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return invalid("request body must be a JSON object")
	}

	req, err := decodeAnalyzeRequest(raw)
	if err != nil {
		return invalid(err.Error())
	}

	report, err := s.deps.Analyzer.Analyze(scoring.Input{File: req.File, JobDescription: req.JobDescription})
	if err != nil {
		return err
	}

	id, err := s.deps.Reports.Save(c.UserContext(), report)
	if err != nil {
		return err
	}

	s.logger.Info("analysis completed", logger.ReportFields(id, report)...)

	return success(c, fiber.StatusOK, analyzeResponse{ID: id, Report: report})
}

// GET /api/reports/:id
func (s *Server) getReport(c *fiber.Ctx) error {
	report, err := s.deps.Reports.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, report)
}

// decodeAnalyzeRequest accepts loose file metadata but requires the
// description to be a string when present.
func decodeAnalyzeRequest(raw map[string]any) (analyzeRequest, error) {
	var req analyzeRequest

	switch v := raw["jobDescription"].(type) {
	case nil, string:
	default:
		return req, fmt.Errorf("jobDescription must be a string, got %T", v)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &req,
	})
	if err != nil {
		return req, err
	}
	if err := decoder.Decode(raw); err != nil {
		return req, fmt.Errorf("malformed request: %w", err)
	}

	return req, nil
}
