package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poglesbyg/nanopore-tracking-app/internal/ai"
	"github.com/poglesbyg/nanopore-tracking-app/internal/config"
	"github.com/poglesbyg/nanopore-tracking-app/internal/export"
	"github.com/poglesbyg/nanopore-tracking-app/internal/submission"
)

var (
	outputFormat = flag.String("format", "json", "Output format: json, csv, xlsx, all")
	outputDir    = flag.String("output", "", "Output directory (defaults to the input file's directory)")
	profileName  = flag.String("profile", config.ProfileGeneric, "Extraction profile: generic, htsf")
	maxPages     = flag.Int("maxpages", config.DefaultMaxPages, "Maximum PDF pages processed per document")
	chunkSize    = flag.Int("chunksize", config.DefaultChunkSize, "CSV rows processed per chunk")
	aiServiceURL = flag.String("aiserviceurl", "", "Base URL of the AI extraction service (empty disables AI assistance)")
	verbose      = flag.Bool("verbose", false, "Enable verbose output")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Usage = printHelp
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: submission file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	formats, err := resolveFormats(*outputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	svc := newService()
	exporter := export.NewService(slog.Default())
	ctx := context.Background()

	failed := 0
	for _, path := range flag.Args() {
		if err := processFile(ctx, svc, exporter, path, formats); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func newService() *submission.Service {
	profile := submission.ProfileGenericPattern
	if *profileName == config.ProfileHTSF {
		profile = submission.ProfileHTSFSixColumn
	}

	cfg := submission.ServiceConfig{
		MaxFileSize: config.DefaultMaxFileSize,
		MaxPages:    *maxPages,
		ChunkSize:   *chunkSize,
		Profile:     profile,
	}
	if client := ai.NewClient(*aiServiceURL, config.DefaultAITimeout, slog.Default()); client != nil {
		cfg.AI = client
	}
	return submission.NewService(cfg)
}

func processFile(ctx context.Context, svc *submission.Service, exporter *export.Service, path string, formats []export.Format) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	start := time.Now()
	var result *submission.ProcessingResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		result, err = svc.ProcessPDF(ctx, filepath.Base(path), content)
	case ".csv":
		result, err = svc.ProcessCSV(ctx, filepath.Base(path), content)
	default:
		return fmt.Errorf("unsupported file type %q (expected .pdf or .csv)", filepath.Ext(path))
	}
	if err != nil {
		return err
	}

	if result.Status == submission.StatusFailed {
		if len(result.Errors) > 0 {
			return fmt.Errorf("%s: %s", result.Message, strings.Join(result.Errors, "; "))
		}
		return fmt.Errorf("%s", result.Message)
	}

	if *verbose {
		fmt.Printf("🔍 %s: %s (%.2fs)\n", path, result.Message, time.Since(start).Seconds())
		for _, w := range result.Warnings {
			fmt.Printf("   ⚠️  %s\n", w)
		}
		for _, e := range result.Errors {
			fmt.Printf("   ❗ %s\n", e)
		}
	}

	if len(result.Data) == 0 {
		fmt.Printf("⚠️  %s: no sample data found\n", path)
		return nil
	}

	for _, format := range formats {
		outPath, err := writeExport(exporter, path, format, result.Data)
		if err != nil {
			return err
		}
		fmt.Printf("✅ %s → %s\n", path, outPath)
	}
	return nil
}

func writeExport(exporter *export.Service, inputPath string, format export.Format, samples []submission.SampleData) (string, error) {
	dir := *outputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outPath := filepath.Join(dir, fmt.Sprintf("%s_samples.%s", base, format))

	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := exporter.Write(f, format, samples); err != nil {
		return "", err
	}
	return outPath, nil
}

func resolveFormats(name string) ([]export.Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return []export.Format{export.FormatJSON}, nil
	case "csv":
		return []export.Format{export.FormatCSV}, nil
	case "xlsx":
		return []export.Format{export.FormatXLSX}, nil
	case "all":
		return []export.Format{export.FormatJSON, export.FormatCSV, export.FormatXLSX}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", name)
	}
}

func printHelp() {
	fmt.Println("Extract Samples - pull sample submission data out of quote forms and manifests")
	fmt.Println()
	fmt.Println("Processes PDF quote forms and CSV manifests from a sequencing facility and")
	fmt.Println("writes the extracted sample records next to each input file.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -format        Output format: json (default), csv, xlsx, all")
	fmt.Println("  -output        Output directory (defaults to the input file's directory)")
	fmt.Println("  -profile       Extraction profile: generic (default), htsf")
	fmt.Println("  -maxpages      Maximum PDF pages processed per document")
	fmt.Println("  -chunksize     CSV rows processed per chunk")
	fmt.Println("  -aiserviceurl  AI extraction service URL (empty disables AI assistance)")
	fmt.Println("  -verbose       Enable verbose output")
	fmt.Println("  -help          Show this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  extract-samples quote.pdf")
	fmt.Println("  extract-samples -format xlsx -profile htsf htsf-quote.pdf")
	fmt.Println("  extract-samples -format all -output ./out manifest.csv quote.pdf")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  extract-samples [OPTIONS] <file.pdf|file.csv> ...")
}
