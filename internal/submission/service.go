package submission

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/poglesbyg/nanopore-tracking-app/internal/pdftext"
)

// aiFieldThreshold is the minimum number of heuristic field hits below
// which AI-assisted extraction is attempted.
const aiFieldThreshold = 5

// AIExtractor is the escape hatch for documents the rule-based
// heuristics cannot read. Implementations may fail freely; the service
// degrades to heuristic-only results.
type AIExtractor interface {
	ExtractFields(ctx context.Context, text string, fields []string) (map[string]string, error)
}

// ServiceConfig carries the processing limits and optional
// collaborators for a Service.
type ServiceConfig struct {
	MaxFileSize int64
	MaxPages    int
	ChunkSize   int
	Profile     Profile
	AI          AIExtractor
}

// Service turns raw submission documents into validated sample
// records. It is safe for concurrent use.
type Service struct {
	extractor   *pdftext.Extractor
	ai          AIExtractor
	profile     Profile
	chunkSize   int
	maxFileSize int64
}

func NewService(cfg ServiceConfig) *Service {
	return &Service{
		extractor:   pdftext.NewExtractor(cfg.MaxPages),
		ai:          cfg.AI,
		profile:     cfg.Profile,
		chunkSize:   cfg.ChunkSize,
		maxFileSize: cfg.MaxFileSize,
	}
}

// ProcessPDF extracts sample data from an in-memory PDF quote form.
// Document-fatal conditions come back as a failed result, not a Go
// error; the error return is reserved for context cancellation.
func (s *Service) ProcessPDF(ctx context.Context, filename string, content []byte) (*ProcessingResult, error) {
	start := time.Now()
	result := &ProcessingResult{
		Status:   StatusCompleted,
		Metadata: map[string]any{"filename": filename},
	}
	finish := func() *ProcessingResult {
		result.ProcessingTime = time.Since(start).Seconds()
		return result
	}

	if s.maxFileSize > 0 && int64(len(content)) > s.maxFileSize {
		result.Status = StatusFailed
		result.Message = "File too large"
		result.Errors = append(result.Errors,
			fmt.Sprintf("file size %d exceeds maximum %d bytes", len(content), s.maxFileSize))
		return finish(), nil
	}

	doc, err := s.extractor.Extract(content)
	if err != nil {
		result.Status = StatusFailed
		result.Message = "Failed to extract text from PDF"
		result.Errors = append(result.Errors, err.Error())
		return finish(), nil
	}
	result.Warnings = append(result.Warnings, doc.Warnings...)
	result.Metadata["pages_processed"] = len(doc.Pages)
	result.Metadata["text_length"] = len(doc.Text)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fields := ExtractFields(doc.Text)
	scannerFields, scannerMeta := ScanSections(doc.Text)
	fields.Merge(scannerFields)

	meta := ExtractMetadata(doc.Text)
	for k, v := range scannerMeta {
		if _, ok := meta[k]; !ok {
			meta[k] = v
		}
	}

	rows := ExtractTableRows(doc.Tables)
	if s.profile == ProfileHTSFSixColumn && len(rows) == 0 {
		rows = ExtractHTSFRows(doc.Text)
	}

	if len(fields) < aiFieldThreshold && s.ai != nil {
		s.enhanceWithAI(ctx, doc.Text, fields)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	if sample, ok := BuildSample(fields, meta, rows); ok {
		result.Data = append(result.Data, *sample)
		result.Message = fmt.Sprintf("Successfully extracted %d sample(s) from PDF", len(result.Data))
	} else {
		result.Message = "PDF processed but no sample data found"
		result.Warnings = append(result.Warnings, "No recognizable sample data patterns found")
	}
	return finish(), nil
}

// enhanceWithAI fills only fields the heuristics left empty. Failures
// are logged and otherwise invisible to the caller.
func (s *Service) enhanceWithAI(ctx context.Context, text string, fields Fields) {
	values, err := s.ai.ExtractFields(ctx, text, FieldNames())
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("ai extraction unavailable: %v", err)
		}
		return
	}
	for name, raw := range values {
		if _, ok := fields[name]; ok {
			continue
		}
		if name == "concentration" || name == "volume" {
			if v, ok := parseNumber(raw); ok {
				fields[name] = v
			}
			continue
		}
		fields[name] = raw
	}
}

// ProcessCSV extracts sample records from an in-memory CSV manifest.
func (s *Service) ProcessCSV(ctx context.Context, filename string, content []byte) (*ProcessingResult, error) {
	start := time.Now()
	result := &ProcessingResult{
		Status:   StatusCompleted,
		Metadata: map[string]any{"filename": filename},
	}
	finish := func() *ProcessingResult {
		result.ProcessingTime = time.Since(start).Seconds()
		return result
	}

	if s.maxFileSize > 0 && int64(len(content)) > s.maxFileSize {
		result.Status = StatusFailed
		result.Message = "File too large"
		result.Errors = append(result.Errors,
			fmt.Sprintf("file size %d exceeds maximum %d bytes", len(content), s.maxFileSize))
		return finish(), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome, err := processCSV(bytes.NewReader(content), s.chunkSize)
	if err != nil {
		result.Status = StatusFailed
		if errors.Is(err, errNoColumns) {
			result.Message = errNoColumns.Error()
		} else {
			result.Message = "Failed to process CSV file"
		}
		result.Errors = append(result.Errors, err.Error())
		return finish(), nil
	}

	result.Data = outcome.samples
	result.Errors = outcome.errors
	result.Metadata["total_rows"] = outcome.totalRows
	result.Metadata["valid_samples"] = len(outcome.samples)
	result.Metadata["columns_mapped"] = outcome.columnsMapped
	result.Message = fmt.Sprintf("Processed %d valid sample(s) from %d row(s)",
		len(outcome.samples), outcome.totalRows)
	if len(outcome.samples) == 0 {
		result.Warnings = append(result.Warnings, "No valid sample rows found in CSV")
	}
	return finish(), nil
}
