// Package importer loads raw payer detail rows from source workbooks.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/payerdesk/internal/data/repos"
	"github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/observability"
	"github.com/yungbote/payerdesk/internal/pkg/dbctx"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

type SheetReport struct {
	Name     string
	Rows     int
	Imported int
	Skipped  int
}

type Report struct {
	Sheets        []SheetReport
	IgnoredSheets []string
}

func (r Report) Imported() int {
	n := 0
	for _, s := range r.Sheets {
		n += s.Imported
	}
	return n
}

type Importer struct {
	db      *gorm.DB
	log     *logger.Logger
	details repos.PayerDetailRepo
	ignore  map[string]bool
}

// New builds an importer; a nil ignored list uses DefaultIgnoredSheets.
func New(db *gorm.DB, baseLog *logger.Logger, details repos.PayerDetailRepo, ignored []string) *Importer {
	if ignored == nil {
		ignored = DefaultIgnoredSheets
	}
	ignore := make(map[string]bool, len(ignored))
	for _, s := range ignored {
		ignore[s] = true
	}
	return &Importer{
		db:      db,
		log:     baseLog.Named("importer"),
		details: details,
		ignore:  ignore,
	}
}

// ImportFile parses the workbook at path and stores every row in a single
// transaction.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Report, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return im.importWorkbook(ctx, f)
}

func (im *Importer) ImportReader(ctx context.Context, r io.Reader) (*Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	return im.importWorkbook(ctx, f)
}

func (im *Importer) importWorkbook(ctx context.Context, f *excelize.File) (_ *Report, err error) {
	ctx, span := observability.StartSpan(ctx, "importer.workbook")
	defer func() { observability.EndSpan(span, err) }()

	rows, report, err := im.Parse(f)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("payerdesk.import.rows", len(rows)))
	if len(rows) == 0 {
		im.log.Warn("Workbook holds no importable rows")
		return report, nil
	}
	im.log.Info("Committing changes", "rows", len(rows))
	err = im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := im.details.Create(dbctx.Context{Ctx: ctx, Tx: tx}, rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("store payer details: %w", err)
	}
	metrics := observability.Current()
	for _, s := range report.Sheets {
		metrics.AddImportedRows(s.Name, "imported", s.Imported)
		metrics.AddImportedRows(s.Name, "skipped", s.Skipped)
	}
	im.log.Info("Raw data loaded", "rows", len(rows), "sheets", len(report.Sheets))
	return report, nil
}

// Parse converts every non-ignored sheet into detail rows without touching
// the database.
func (im *Importer) Parse(f *excelize.File) ([]*registry.PayerDetail, *Report, error) {
	report := &Report{}
	var out []*registry.PayerDetail
	for _, sheet := range f.GetSheetList() {
		if im.ignore[sheet] {
			im.log.Info("Skipping sheet", "sheet", sheet)
			report.IgnoredSheets = append(report.IgnoredSheets, sheet)
			continue
		}
		im.log.Info("Processing sheet", "sheet", sheet)
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		details, sr, err := parseSheet(sheet, rows)
		if err != nil {
			return nil, nil, err
		}
		for _, skipped := range sr.skippedRows {
			im.log.Debug("Skipping row with no payer name", "sheet", sheet, "row", skipped)
		}
		report.Sheets = append(report.Sheets, sr.SheetReport)
		out = append(out, details...)
	}
	return out, report, nil
}

type sheetResult struct {
	SheetReport
	skippedRows []int
}

// parseSheet treats the first row as the header. Data rows are indexed from
// zero; that index names rows that carry no payer id.
func parseSheet(sheet string, rows [][]string) ([]*registry.PayerDetail, sheetResult, error) {
	res := sheetResult{SheetReport: SheetReport{Name: sheet}}
	if len(rows) == 0 {
		return nil, res, nil
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = normalizeHeader(h)
	}

	var out []*registry.PayerDetail
	for idx, row := range rows[1:] {
		res.Rows++
		fields := map[string]string{}
		raw := map[string]string{}
		for col, value := range row {
			if col >= len(headers) || headers[col] == "" {
				continue
			}
			value = strings.TrimSpace(value)
			name := headers[col]
			if isDetailField(name) {
				if fields[name] == "" {
					fields[name] = value
				}
				continue
			}
			if value != "" {
				raw[name] = value
			}
		}

		if fields[colPayerName] == "" {
			res.Skipped++
			res.skippedRows = append(res.skippedRows, idx+1)
			continue
		}
		d := &registry.PayerDetail{
			PayerID:   fields[colPayerID],
			PayerName: fields[colPayerName],
			State:     fields[colState],
			Source:    fields[colSource],
		}
		if d.PayerID == "" {
			d.PayerID = "ID" + strconv.Itoa(idx)
		}
		if d.Source == "" {
			d.Source = sheet
		}
		if len(raw) > 0 {
			b, err := json.Marshal(raw)
			if err != nil {
				return nil, res, fmt.Errorf("encode raw columns for %s row %d: %w", sheet, idx+1, err)
			}
			d.Raw = datatypes.JSON(b)
		}
		out = append(out, d)
		res.Imported++
	}
	return out, res, nil
}
