// Package export serializes verdicts for downstream consumers. The JSON
// record shape is a compatibility contract; change it and every dashboard
// reading these files breaks.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/registrarlabs/namegate/internal/pipeline"
)

// WriteJSON writes verdicts as a pretty-printed JSON array.
func WriteJSON(w io.Writer, verdicts []*pipeline.Verdict) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(verdicts); err != nil {
		return fmt.Errorf("encoding verdicts: %w", err)
	}
	return nil
}

var csvHeader = []string{
	"name", "cleaned_name", "is_available", "score", "degraded",
	"existing_companies", "errors", "warnings", "validation_score",
	"recommendation",
}

// WriteCSV writes one row per verdict, list fields joined with "; ".
func WriteCSV(w io.Writer, verdicts []*pipeline.Verdict) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, v := range verdicts {
		row := []string{
			v.Name,
			v.CleanedName,
			strconv.FormatBool(v.IsAvailable),
			strconv.Itoa(v.Score),
			strconv.FormatBool(v.Degraded),
			strings.Join(v.ExistingCompanies, "; "),
			strings.Join(v.Validation.Errors, "; "),
			strings.Join(v.Validation.Warnings, "; "),
			strconv.Itoa(v.Validation.Score),
			v.Recommendation,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", v.Name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
