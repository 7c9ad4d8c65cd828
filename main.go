package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/statementkit/estatement-compiler/internal/api"
	"github.com/statementkit/estatement-compiler/internal/compiler"
	"github.com/statementkit/estatement-compiler/internal/extractor"
	"github.com/statementkit/estatement-compiler/internal/logger"
	"github.com/statementkit/estatement-compiler/internal/models"
	"github.com/statementkit/estatement-compiler/internal/parser"
	"github.com/statementkit/estatement-compiler/internal/store"
	"github.com/statementkit/estatement-compiler/internal/writer"
)

const version = "1.0.0"

func main() {
	inputFlag := flag.String("input", "e-statements", "Directory of e-statement PDFs")
	rawFlag := flag.String("raw", "raw-statement", "Directory for raw extracted page text")
	cleanedFlag := flag.String("cleaned", "cleaned-raw-statement", "Directory for cleaned transaction text")
	csvFlag := flag.String("csv", "csv-statements", "Directory for per-statement CSV output")
	compileFlag := flag.Bool("compile", false, "Merge per-statement CSVs into one export")
	exportFlag := flag.String("export", filepath.Join("DATA", "EXPORT.csv"), "Path of the merged CSV export")
	dbFlag := flag.String("db", "", "Also load the compiled set into a sqlite database at this path")
	serveFlag := flag.String("serve", "", "Run the HTTP API on this address (e.g. :8080) instead of the batch pipeline")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `E-Statement Compiler

Converts CIBC-family e-statement PDFs into per-statement CSV files and
compiles them into one chronological export for analysis.

Usage:
  estatement-compiler [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Run the staged pipeline over ./e-statements
  estatement-compiler

  # Pipeline plus merged export and summary
  estatement-compiler -compile

  # Load the compiled set into sqlite as well
  estatement-compiler -compile -db DATA/ledger.db

  # Run the HTTP conversion API
  estatement-compiler -serve :8080
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("estatement-compiler v%s\n", version)
		return
	}

	log := logger.New()

	if *serveFlag != "" {
		app := api.NewApp(log)
		log.Info().Str("addr", *serveFlag).Msg("starting API server")
		if err := app.Listen(*serveFlag); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	}

	for _, dir := range []string{*rawFlag, *cleanedFlag, *csvFlag} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("cannot create working directory")
		}
	}

	// Each stage reads the previous stage's directory, so partial results
	// survive on disk and any stage can be re-run or inspected alone.
	stageExtract(log, *inputFlag, *rawFlag)
	stageClean(log, *rawFlag, *cleanedFlag)
	stageAssemble(log, *rawFlag, *cleanedFlag, *csvFlag)

	if *compileFlag {
		runCompile(log, *csvFlag, *exportFlag, *dbFlag)
	}
}

// stageExtract converts each PDF into raw page text joined with the
// page-break sentinel.
func stageExtract(log zerolog.Logger, inputDir, rawDir string) {
	pdfs, err := filepath.Glob(filepath.Join(inputDir, "*.pdf"))
	if err != nil || len(pdfs) == 0 {
		log.Info().Str("dir", inputDir).Msg("no PDFs to extract")
		return
	}

	for _, pdfPath := range pdfs {
		pages, err := extractor.ExtractPages(pdfPath)
		if err != nil {
			log.Warn().Str("file", pdfPath).Err(err).Msg("extraction failed, skipping document")
			continue
		}

		outPath := filepath.Join(rawDir, stem(pdfPath)+".txt")
		if err := os.WriteFile(outPath, []byte(parser.JoinPages(pages)), 0o644); err != nil {
			log.Warn().Str("file", outPath).Err(err).Msg("cannot write raw text")
			continue
		}
		log.Info().Str("file", pdfPath).Int("pages", len(pages)).Msg("extracted")
	}
}

// stageClean isolates the transaction section of each raw text file and
// strips page-break and footer noise.
func stageClean(log zerolog.Logger, rawDir, cleanedDir string) {
	files, _ := filepath.Glob(filepath.Join(rawDir, "*.txt"))
	for _, rawPath := range files {
		data, err := os.ReadFile(rawPath)
		if err != nil {
			log.Warn().Str("file", rawPath).Err(err).Msg("cannot read raw text")
			continue
		}

		section, err := parser.ExtractSection(string(data))
		if err != nil {
			if errors.Is(err, parser.ErrMissingSectionMarker) {
				log.Warn().Str("file", rawPath).Msg("no transaction section marker, skipping document")
			} else {
				log.Warn().Str("file", rawPath).Err(err).Msg("cleaning failed, skipping document")
			}
			continue
		}

		lines := parser.FilterLines(strings.Split(section, "\n"))
		outPath := filepath.Join(cleanedDir, filepath.Base(rawPath))
		if err := os.WriteFile(outPath, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
			log.Warn().Str("file", outPath).Err(err).Msg("cannot write cleaned text")
			continue
		}
		log.Info().Str("file", rawPath).Int("lines", len(lines)).Msg("cleaned")
	}
}

// stageAssemble builds transactions from each cleaned file and writes a
// per-statement CSV. The statement year comes from the raw counterpart,
// since the cleaned file no longer carries the header date range.
func stageAssemble(log zerolog.Logger, rawDir, cleanedDir, csvDir string) {
	files, _ := filepath.Glob(filepath.Join(cleanedDir, "*.txt"))
	for _, cleanedPath := range files {
		name := stem(cleanedPath)
		docLog := log.With().Str("statement", name).Logger()

		data, err := os.ReadFile(cleanedPath)
		if err != nil {
			docLog.Warn().Err(err).Msg("cannot read cleaned text")
			continue
		}

		asm := parser.NewAssembler(docLog)
		for _, line := range strings.Split(string(data), "\n") {
			asm.Feed(line)
		}

		stmt := &models.Statement{
			Name:           name,
			OpeningBalance: asm.OpeningBalance(),
			Transactions:   asm.Finish(),
		}
		if len(stmt.Transactions) == 0 {
			docLog.Warn().Msg("no transactions assembled, skipping output")
			continue
		}

		if raw, err := os.ReadFile(filepath.Join(rawDir, name+".txt")); err == nil {
			stmt.Year = parser.ResolveYear(string(raw))
		}
		if stmt.Year == nil {
			docLog.Warn().Msg("no statement date found, leaving transaction years unset")
		}
		parser.ApplyYear(stmt)

		outPath := filepath.Join(csvDir, name+".csv")
		if err := writer.WriteFile(outPath, stmt); err != nil {
			docLog.Warn().Err(err).Msg("cannot write CSV")
			continue
		}
		docLog.Info().Int("transactions", len(stmt.Transactions)).Str("file", outPath).Msg("converted")
	}
}

func runCompile(log zerolog.Logger, csvDir, exportPath, dbPath string) {
	txns, err := compiler.Compile(csvDir)
	if err != nil {
		log.Error().Err(err).Msg("compile failed")
		return
	}

	if err := compiler.WriteExport(exportPath, txns); err != nil {
		log.Error().Err(err).Msg("cannot write export")
		return
	}
	log.Info().Int("transactions", len(txns)).Str("file", exportPath).Msg("compiled")

	summary := compiler.Summarize(txns)
	if err := summary.WriteText(os.Stdout); err != nil {
		log.Error().Err(err).Msg("cannot render summary")
	}

	if dbPath != "" {
		loadIntoStore(log, dbPath, exportPath, txns)
	}
}

func loadIntoStore(log zerolog.Logger, dbPath, source string, txns []models.Transaction) {
	db, err := store.Open(dbPath)
	if err != nil {
		log.Error().Err(err).Msg("cannot open database")
		return
	}
	defer db.Close()

	if err := db.Init(); err != nil {
		log.Error().Err(err).Msg("cannot initialize database")
		return
	}

	batchID, err := db.CreateImportBatch(source, len(txns))
	if err != nil {
		log.Error().Err(err).Msg("cannot create import batch")
		return
	}
	if err := db.InsertTransactions(batchID, txns); err != nil {
		log.Error().Err(err).Msg("cannot insert transactions")
		return
	}
	log.Info().Str("batch", batchID).Int("transactions", len(txns)).Str("db", dbPath).Msg("loaded into sqlite")
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
