package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yungbote/payerdesk/internal/app"
	"github.com/yungbote/payerdesk/internal/importer"
)

type sheetList []string

func (l *sheetList) String() string { return strings.Join(*l, ",") }
func (l *sheetList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

func main() {
	var ignored sheetList
	var path string
	var dryRun bool
	flag.StringVar(&path, "file", "Payers.xlsx", "workbook to import")
	flag.Var(&ignored, "ignore-sheet", "sheet to skip (repeatable; defaults to the legend tabs)")
	flag.BoolVar(&dryRun, "dry-run", false, "parse and report without writing")
	flag.Parse()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	var ignore []string
	if len(ignored) > 0 {
		ignore = []string(ignored)
	}
	im := importer.New(application.DB, application.Log, application.Repos.Details, ignore)

	var report *importer.Report
	if dryRun {
		report, err = parseOnly(im, path)
	} else {
		report, err = im.ImportFile(context.Background(), path)
	}
	if err != nil {
		fmt.Printf("import %s: %v\n", path, err)
		os.Exit(1)
	}

	for _, s := range report.IgnoredSheets {
		fmt.Printf("skipped sheet %q\n", s)
	}
	for _, s := range report.Sheets {
		fmt.Printf("sheet %q: rows=%d imported=%d skipped=%d\n", s.Name, s.Rows, s.Imported, s.Skipped)
	}
	if dryRun {
		fmt.Printf("dry run: %d rows would be imported\n", report.Imported())
		return
	}
	fmt.Printf("imported %d rows into payer_details\n", report.Imported())
}

func parseOnly(im *importer.Importer, path string) (*importer.Report, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	_, report, err := im.Parse(f)
	return report, err
}
