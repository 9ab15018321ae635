package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/bitmark-inc/aqi-predictor/schema"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatText Format = "txt"

	basename = "aqi_report"
)

var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat accepts csv, txt and text. Empty means csv.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", string(FormatCSV):
		return FormatCSV, nil
	case string(FormatText), "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
}

func Filename(f Format) string {
	return basename + "." + string(f)
}

func ContentType(f Format) string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Header lists the report fields in output order
func Header() []string {
	h := make([]string, 0, schema.FeatureCount+3)
	for _, p := range schema.FeatureOrder {
		h = append(h, string(p))
	}
	return append(h, "AQI", "Category", "Advisory")
}

func values(r schema.Report) []string {
	v := make([]string, 0, schema.FeatureCount+3)
	for _, x := range r.Reading.Vector() {
		v = append(v, formatFloat(x))
	}
	return append(v, formatFloat(r.Score), r.Category, r.Advisory)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func Write(w io.Writer, r schema.Report, f Format) error {
	switch f {
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(Header()); err != nil {
			return err
		}
		if err := cw.Write(values(r)); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	case FormatText:
		h := Header()
		for i, v := range values(r) {
			if _, err := fmt.Fprintf(w, "%s: %s\n", h[i], v); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, f)
}

func Bytes(r schema.Report, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, r, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
