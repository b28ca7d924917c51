package application

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/example/feedback-kiosk/internal/persistence"
)

// Export formats accepted by the exporter.
const (
	FormatCSV = "csv"
	FormatTXT = "txt"
)

// Text rendering styles for plain-text exports.
const (
	TextStyleTabular   = "tabular"
	TextStyleNarrative = "narrative"
)

// ExportSource captures the single read the export flow performs.
type ExportSource interface {
	ListEvents(ctx context.Context, filter persistence.EventFilter) ([]persistence.FeedbackEvent, error)
}

// ExportParams selects the records and rendering of one export download.
// Empty date bounds export the full history; a lone bound is open-ended on
// the other side. Bounds are inclusive. An empty Format selects CSV and the
// value is matched case-insensitively.
type ExportParams struct {
	StartDate string
	EndDate   string
	Format    string
}

// ExportResult is a fully rendered download ready to stream to the operator.
type ExportResult struct {
	Filename    string
	ContentType string
	Format      string
	Data        []byte
}

// ExportService renders stored events into downloadable files.
type ExportService struct {
	events    ExportSource
	textStyle string
	logger    *slog.Logger
}

// NewExportService constructs an ExportService rendering plain text in the
// given style. An empty style selects the tabular default.
func NewExportService(events ExportSource, textStyle string) *ExportService {
	return NewExportServiceWithLogger(events, textStyle, nil)
}

// NewExportServiceWithLogger constructs an ExportService with a specified logger.
func NewExportServiceWithLogger(events ExportSource, textStyle string, logger *slog.Logger) *ExportService {
	if textStyle != TextStyleNarrative {
		textStyle = TextStyleTabular
	}
	return &ExportService{
		events:    events,
		textStyle: textStyle,
		logger:    defaultLogger(logger),
	}
}

// Export renders every event inside the requested bounds, oldest page of the
// stored ordering preserved, into a CSV or plain-text file.
func (s *ExportService) Export(ctx context.Context, params ExportParams) (*ExportResult, error) {
	if s == nil || s.events == nil {
		return nil, fmt.Errorf("export service not configured")
	}

	format := strings.ToLower(strings.TrimSpace(params.Format))
	if format == "" {
		format = FormatCSV
	}

	logger := serviceLogger(ctx, s.logger, "ExportService", "Export",
		"format", format, "start", params.StartDate, "end", params.EndDate)

	if format != FormatCSV && format != FormatTXT {
		logger.ErrorContext(ctx, "export rejected", "error", ErrUnsupportedFormat, "error_kind", ErrorKind(ErrUnsupportedFormat))
		return nil, ErrUnsupportedFormat
	}

	filter := persistence.EventFilter{}
	if normalized, ok := NormalizeDate(params.StartDate); ok {
		filter.StartDate = normalized
	}
	if normalized, ok := NormalizeDate(params.EndDate); ok {
		filter.EndDate = normalized
	}

	models, err := s.events.ListEvents(ctx, filter)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list events", "error", err)
		return nil, err
	}

	var data []byte
	contentType := "text/csv; charset=utf-8"
	switch {
	case format == FormatCSV:
		data, err = renderDelimited(models, ',')
	case s.textStyle == TextStyleNarrative:
		contentType = "text/plain; charset=utf-8"
		data = renderNarrative(models)
	default:
		contentType = "text/plain; charset=utf-8"
		data, err = renderDelimited(models, '\t')
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to render export", "error", err)
		return nil, err
	}

	result := &ExportResult{
		Filename:    exportFilename(filter.StartDate, filter.EndDate, format),
		ContentType: contentType,
		Format:      format,
		Data:        data,
	}
	logger.With("filename", result.Filename, "records", len(models)).InfoContext(ctx, "export rendered")
	return result, nil
}

func exportFilename(start, end, format string) string {
	switch {
	case start == "" && end == "":
		return "feedback_all." + format
	case start == end:
		return "feedback_" + start + "." + format
	case start == "":
		return "feedback_until_" + end + "." + format
	case end == "":
		return "feedback_from_" + start + "." + format
	}
	return "feedback_" + start + "_" + end + "." + format
}

func renderDelimited(models []persistence.FeedbackEvent, delimiter rune) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = delimiter

	if err := writer.Write([]string{"ID", "Level", "Date", "Time", "Weekday"}); err != nil {
		return nil, fmt.Errorf("write export header: %w", err)
	}
	for _, model := range models {
		row := []string{
			strconv.FormatInt(model.ID, 10),
			model.Level,
			model.Date,
			model.Time,
			model.Weekday,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write export row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush export: %w", err)
	}
	return buf.Bytes(), nil
}

func renderNarrative(models []persistence.FeedbackEvent) []byte {
	var buf bytes.Buffer
	for i, model := range models {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "Record %d\n", model.ID)
		fmt.Fprintf(&buf, "  Level:   %s\n", model.Level)
		fmt.Fprintf(&buf, "  Date:    %s (%s)\n", model.Date, model.Weekday)
		fmt.Fprintf(&buf, "  Time:    %s\n", model.Time)
	}
	return buf.Bytes()
}
