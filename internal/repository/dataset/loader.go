// Package dataset loads and cleans the city CSV into a city.Table.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/cityscout/internal/domain"
	"github.com/kailas-cloud/cityscout/internal/domain/city"
	"github.com/kailas-cloud/cityscout/internal/logger"
)

// ColDescription is the optional free-text column.
const ColDescription = "short_description"

// activityScale converts 0-5 ratings to the 0-100 range.
const (
	activityScale    = 20
	activityScaleMax = 10
)

var titleCaser = cases.Title(language.Und)

// LoadFile opens path and loads it with Load.
func LoadFile(ctx context.Context, path string) (*city.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Load(ctx, f)
}

// Load parses a CSV with a header row and cleans it:
// continuous columns are mean-filled, boolean and duration flags become 0/1,
// activity scores are rounded and rescaled to 0-100 when stored as 0-5,
// regions are title-cased and rows without city or country are dropped.
func Load(ctx context.Context, r io.Reader) (*city.Table, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrEmptyDataset
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, required := range []string{city.ColCity, city.ColCountry} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("dataset: missing required column %q", required)
		}
	}

	var records [][]string
	skipped := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", len(records)+skipped+1, err)
		}
		if cell(rec, idx, city.ColCity) == "" || cell(rec, idx, city.ColCountry) == "" {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, domain.ErrEmptyDataset
	}

	columns, values := clean(records, idx)

	rows := make([]city.Row, len(records))
	for i, rec := range records {
		cells := make(map[string]float64, len(columns))
		for _, c := range columns {
			cells[c] = values[c][i]
		}
		row := city.NewRow(
			cell(rec, idx, city.ColCity),
			cell(rec, idx, city.ColCountry),
			titleCaser.String(cell(rec, idx, city.ColRegion)),
			cells,
		)
		row.BudgetLevel = cell(rec, idx, city.ColBudgetLevel)
		row.Description = cell(rec, idx, ColDescription)
		rows[i] = row
	}

	logger.FromContext(ctx).Info("dataset loaded",
		zap.Int("rows", len(rows)),
		zap.Int("dropped", skipped),
		zap.Int("columns", len(columns)),
	)
	return city.NewTableWithColumns(columns, rows), nil
}

// clean builds every known numeric column present in the header.
func clean(records [][]string, idx map[string]int) ([]string, map[string][]float64) {
	var columns []string
	values := make(map[string][]float64)
	add := func(name string, v []float64) {
		columns = append(columns, name)
		values[name] = v
	}

	for _, c := range city.ActivityColumns() {
		if _, ok := idx[c]; ok {
			add(c, activity(records, idx, c))
		}
	}
	for _, c := range city.ContinuousColumns() {
		if _, ok := idx[c]; ok {
			add(c, meanFilled(parseColumn(records, idx, c)))
			continue
		}
		if c == city.BudgetNumeric {
			if _, ok := idx[city.ColBudgetLevel]; ok {
				add(c, meanFilled(derivedBudget(records, idx)))
			}
		}
	}
	flags := append(city.BooleanColumns(), city.DurationColumns()...)
	for _, c := range flags {
		if _, ok := idx[c]; ok {
			add(c, flag(records, idx, c))
		}
	}
	return columns, values
}

func activity(records [][]string, idx map[string]int, col string) []float64 {
	out := parseColumn(records, idx, col)
	hi := math.Inf(-1)
	for i, v := range out {
		if math.IsNaN(v) {
			v = 0
		}
		out[i] = math.Round(v)
		hi = math.Max(hi, out[i])
	}
	if hi <= activityScaleMax {
		for i := range out {
			out[i] *= activityScale
		}
	}
	return out
}

func flag(records [][]string, idx map[string]int, col string) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		out[i] = parseFlag(cell(rec, idx, col))
	}
	return out
}

func derivedBudget(records [][]string, idx map[string]int) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		b, err := city.ParseBudget(cell(rec, idx, city.ColBudgetLevel))
		if err != nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = b.Numeric()
	}
	return out
}

func parseColumn(records [][]string, idx map[string]int, col string) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		out[i] = parseNumber(cell(rec, idx, col))
	}
	return out
}

// meanFilled replaces NaN with the column mean, or 0 when every cell is missing.
func meanFilled(v []float64) []float64 {
	fill := city.PresentMean(v)
	for i, x := range v {
		if math.IsNaN(x) {
			v[i] = fill
		}
	}
	return v
}

func parseNumber(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

func parseFlag(s string) float64 {
	switch strings.ToLower(s) {
	case "true", "yes":
		return 1
	case "false", "no", "":
		return 0
	}
	if v := parseNumber(s); !math.IsNaN(v) && v != 0 {
		return 1
	}
	return 0
}

func cell(rec []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
