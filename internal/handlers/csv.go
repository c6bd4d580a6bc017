package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Brownie44l1/seg-api/internal/metrics"
	"github.com/Brownie44l1/seg-api/internal/record"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var errImageColumns = errors.New("CSV inference does not support image inputs")

type rowError struct {
	Row int
	Err error
}

func (e *rowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *rowError) Unwrap() error {
	return e.Err
}

// InferCSV runs one inference per data row of an uploaded CSV. Columns are
// typed by the configured input features; the response repeats the input
// columns and appends one column per template slot.
func (h *Handler) InferCSV(c *gin.Context) {
	start := time.Now()

	columns, err := h.csvColumns()
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abort(c, http.StatusBadRequest, "No CSV file provided. Use 'file' as the form field name")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abort(c, http.StatusBadRequest, "Failed to open uploaded file")
		return
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		abort(c, http.StatusBadRequest, "Invalid CSV: "+err.Error())
		return
	}
	if len(rows) == 0 {
		abort(c, http.StatusBadRequest, "CSV file is empty")
		return
	}

	header := rows[0]
	position := make(map[string]int, len(header))
	for i, name := range header {
		position[strings.TrimSpace(name)] = i
	}
	for _, col := range columns {
		if _, ok := position[col.Name]; !ok {
			abort(c, http.StatusBadRequest, fmt.Sprintf("Missing required column %q", col.Name))
			return
		}
	}

	data := rows[1:]
	results := make([][]record.Raw, len(data))
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(h.cfg.CSVWorkers)
	for i, row := range data {
		i := i // per-iteration copy; go directive lowered from 1.24 to match local toolchain
		input := make([]record.Raw, len(columns))
		for j, col := range columns {
			input[j] = record.NewRaw(col.Name, col.Kind, parseCell(col.Kind, row[position[col.Name]]))
		}
		g.Go(func() error {
			out, err := h.adapter.Run(ctx, input)
			if err != nil {
				return &rowError{Row: i + 2, Err: err}
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.observe(start, err)
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("csv inference failed")
		}
		abort(c, status, err.Error())
		return
	}
	h.observe(start, nil)
	metrics.Count(metrics.CSVRows, int64(len(data)), nil)

	slots := h.adapter.Template().Wire()
	outHeader := append([]string{}, header...)
	for _, slot := range slots {
		outHeader = append(outHeader, slot["name"].(string))
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "predictions_"+fileHeader.Filename))
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write(outHeader)
	for i, row := range data {
		line := append([]string{}, row...)
		for _, out := range results[i] {
			line = append(line, formatValue(out["value"]))
		}
		_ = writer.Write(line)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Error().Err(err).Msg("failed to write csv response")
	}
}

func (h *Handler) csvColumns() ([]record.Record, error) {
	columns, err := record.Parse(h.cfg.SampleInput())
	if err != nil {
		return nil, fmt.Errorf("invalid input_features: %w", err)
	}
	for _, col := range columns {
		if col.Kind == record.KindImage {
			return nil, errImageColumns
		}
	}
	return columns, nil
}

// parseCell converts a CSV cell to the representation its kind expects.
// Cells that do not parse stay strings so verification reports them.
func parseCell(kind record.Kind, cell string) any {
	trimmed := strings.TrimSpace(cell)
	switch kind {
	case record.KindInt:
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n
		}
	case record.KindFloat:
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	}
	return cell
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
