package resumes

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"onboard-backend/internal/extract"
	"onboard-backend/internal/llm"
	"onboard-backend/internal/shared/metrics"
	"onboard-backend/internal/shared/telemetry"
)

// MaxFileSize is the largest accepted upload in bytes.
const MaxFileSize = 10 * 1024 * 1024

var (
	ErrNoFile          = errors.New("No file provided")
	ErrInvalidEncoding = errors.New("Invalid file encoding")
	ErrEmptyFile       = errors.New("Uploaded file is empty")
	ErrTooLarge        = errors.New("File size exceeds 10MB limit")
	ErrTooLittleText   = errors.New("Could not extract enough text from the file")
)

// Service runs the parse pipeline: decode, extract, structure, persist.
type Service struct {
	Repo      Repo
	Extractor extract.Client
	LLM       llm.Client
}

func NewService(repo Repo, extractor extract.Client, llmClient llm.Client) *Service {
	return &Service{Repo: repo, Extractor: extractor, LLM: llmClient}
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil || s.Extractor == nil || s.LLM == nil {
		return fmt.Errorf("resumes service not configured")
	}
	return nil
}

// Parse decodes the base64 upload, extracts its text, structures it via the
// LLM, and replaces the user's stored result. Nothing is persisted on failure.
func (s *Service) Parse(ctx context.Context, userID, encoded string) (*ParsingResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	metrics.IncParseStarted()
	start := time.Now()

	result, err := s.parse(ctx, userID, encoded)
	metrics.ObserveParseDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncParseFailed()
		return nil, err
	}
	metrics.IncParseCompleted()
	return result, nil
}

func (s *Service) parse(ctx context.Context, userID, encoded string) (*ParsingResult, error) {
	document, err := decodeUpload(encoded)
	if err != nil {
		return nil, err
	}

	text, err := s.Extractor.Extract(ctx, document)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(text)) < extract.MinTextLength {
		return nil, ErrTooLittleText
	}

	structured, err := s.LLM.StructureResume(ctx, text)
	if err != nil {
		return nil, err
	}

	result, err := resultFromJSON(userID, structured)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Upsert(ctx, *result); err != nil {
		return nil, err
	}
	telemetry.Info("resume.parsed", map[string]any{
		"userId":      userID,
		"experiences": len(result.Experiences),
		"skills":      len(result.Skills),
	})
	return result, nil
}

// Get returns the stored parsing result for the user.
func (s *Service) Get(ctx context.Context, userID string) (*ParsingResult, error) {
	if s == nil || s.Repo == nil {
		return nil, fmt.Errorf("resumes service not configured")
	}
	result, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// decodeUpload strips an optional data-URL prefix, decodes base64, and
// enforces the size limits.
func decodeUpload(encoded string) ([]byte, error) {
	if strings.TrimSpace(encoded) == "" {
		return nil, ErrNoFile
	}
	if idx := strings.Index(encoded, ";base64,"); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+len(";base64,"):]
	}
	document, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidEncoding
	}
	if len(document) == 0 {
		return nil, ErrEmptyFile
	}
	if len(document) > MaxFileSize {
		return nil, ErrTooLarge
	}
	return document, nil
}

// resultFromJSON validates and maps the LLM's structured output onto a
// whole-row result keyed by the user id.
func resultFromJSON(userID string, raw json.RawMessage) (*ParsingResult, error) {
	var payload struct {
		FullName      *string      `json:"full_name"`
		Email         *string      `json:"email"`
		Phone         *string      `json:"phone"`
		Skills        []string     `json:"skills"`
		Experiences   []Experience `json:"experiences"`
		ResumeSummary *string      `json:"resume_summary"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("invalid structured resume: %w", err)
	}
	if payload.Skills == nil {
		payload.Skills = []string{}
	}
	if payload.Experiences == nil {
		payload.Experiences = []Experience{}
	}
	return &ParsingResult{
		ID:            userID,
		FullName:      payload.FullName,
		Email:         payload.Email,
		Phone:         payload.Phone,
		Skills:        payload.Skills,
		Experiences:   payload.Experiences,
		ResumeSummary: payload.ResumeSummary,
	}, nil
}
