// Package export serializes stored corrections into line-oriented interchange
// formats. Encoders write one record at a time so callers can stream arbitrarily
// large result sets without buffering them in memory.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/wownom/feedback-collector/internal/datastore"
	"github.com/wownom/feedback-collector/internal/errors"
)

// Format identifies a supported export serialization.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// ParseFormat validates a format selector. Only "jsonl" and "csv" are accepted.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSONL:
		return FormatJSONL, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", errors.Newf("unsupported export format: %q", s).
			Component("export").
			Category(errors.CategoryValidation).
			Context("format", s).
			Build()
	}
}

// ContentType returns the MIME type to serve for the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/x-jsonlines"
}

// Filename returns the suggested download filename for the format.
func (f Format) Filename() string {
	return "feedback." + string(f)
}

// adjustmentRecord is the JSON shape of one ingredient adjustment, shared by
// both export formats and the intake response.
type adjustmentRecord struct {
	Ingredient string  `json:"ingredient"`
	DeltaGrams int     `json:"deltaGrams"`
	Notes      *string `json:"notes"`
}

// portionRecord is the JSON shape of a dish name and weight pair.
type portionRecord struct {
	Name  string `json:"name"`
	Grams int    `json:"grams"`
}

// correctionRecord is the JSON shape of one exported correction. The
// Adjustments field is emitted only when at least one adjustment exists.
type correctionRecord struct {
	ID          uint               `json:"id"`
	ImageID     string             `json:"imageId"`
	Original    portionRecord      `json:"original"`
	Corrected   portionRecord      `json:"corrected"`
	CreatedAt   string             `json:"createdAt"`
	Adjustments []adjustmentRecord `json:"adjustments,omitempty"`
}

func buildAdjustments(correction *datastore.Correction) []adjustmentRecord {
	if len(correction.Adjustments) == 0 {
		return nil
	}
	records := make([]adjustmentRecord, 0, len(correction.Adjustments))
	for i := range correction.Adjustments {
		adj := &correction.Adjustments[i]
		records = append(records, adjustmentRecord{
			Ingredient: adj.Ingredient,
			DeltaGrams: adj.DeltaGrams,
			Notes:      adj.Notes,
		})
	}
	return records
}

func buildRecord(correction *datastore.Correction) correctionRecord {
	return correctionRecord{
		ID:      correction.ID,
		ImageID: correction.ImageID,
		Original: portionRecord{
			Name:  correction.OriginalName,
			Grams: correction.OriginalGrams,
		},
		Corrected: portionRecord{
			Name:  correction.CorrectedName,
			Grams: correction.CorrectedGrams,
		},
		CreatedAt:   correction.CreatedAt.UTC().Format(time.RFC3339),
		Adjustments: buildAdjustments(correction),
	}
}

// Encoder writes corrections one record at a time to an underlying writer.
type Encoder interface {
	// Encode writes one correction. For formats with a header row the header
	// is written lazily before the first record.
	Encode(correction *datastore.Correction) error
	// Close flushes buffered output. It does not close the underlying writer.
	Close() error
}

// NewEncoder returns an encoder for the given format writing to w.
func NewEncoder(format Format, w io.Writer) Encoder {
	if format == FormatCSV {
		return &csvEncoder{writer: csv.NewWriter(w)}
	}
	return &jsonlEncoder{encoder: json.NewEncoder(w)}
}

// jsonlEncoder writes one JSON object per line. An empty correction set
// produces zero bytes of output.
type jsonlEncoder struct {
	encoder *json.Encoder
}

func (e *jsonlEncoder) Encode(correction *datastore.Correction) error {
	if err := e.encoder.Encode(buildRecord(correction)); err != nil {
		return fmt.Errorf("encoding JSONL record: %w", err)
	}
	return nil
}

func (e *jsonlEncoder) Close() error {
	return nil
}

// csvHeader is the fixed column order of CSV exports.
var csvHeader = []string{
	"id", "imageId", "original_name", "original_grams",
	"corrected_name", "corrected_grams", "adjustments", "createdAt",
}

type csvEncoder struct {
	writer      *csv.Writer
	wroteHeader bool
}

func (e *csvEncoder) Encode(correction *datastore.Correction) error {
	if !e.wroteHeader {
		if err := e.writer.Write(csvHeader); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
		e.wroteHeader = true
	}

	// Adjustments travel as a single JSON-encoded cell, empty when none exist
	adjustmentsCell := ""
	if adjustments := buildAdjustments(correction); adjustments != nil {
		data, err := json.Marshal(adjustments)
		if err != nil {
			return fmt.Errorf("encoding adjustments cell: %w", err)
		}
		adjustmentsCell = string(data)
	}

	row := []string{
		strconv.FormatUint(uint64(correction.ID), 10),
		correction.ImageID,
		correction.OriginalName,
		strconv.Itoa(correction.OriginalGrams),
		correction.CorrectedName,
		strconv.Itoa(correction.CorrectedGrams),
		adjustmentsCell,
		correction.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := e.writer.Write(row); err != nil {
		return fmt.Errorf("writing CSV row: %w", err)
	}

	// Flush per record so rows reach the transport as they are produced
	e.writer.Flush()
	if err := e.writer.Error(); err != nil {
		return fmt.Errorf("flushing CSV row: %w", err)
	}
	return nil
}

func (e *csvEncoder) Close() error {
	// Ensure the header is present even for an empty correction set
	if !e.wroteHeader {
		if err := e.writer.Write(csvHeader); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
		e.wroteHeader = true
	}
	e.writer.Flush()
	if err := e.writer.Error(); err != nil {
		return fmt.Errorf("flushing CSV output: %w", err)
	}
	return nil
}
