package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-matcher/internal/ingestion"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/reports"
	"github.com/spigell/resume-matcher/internal/scoring"
)

const (
	dumpToTmpFile   = "-"
	analyzeParallel = 4
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score one or more résumé files against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("job", "", "job description text")
	analyzeCmd.Flags().String("job-file", "", "file with the job description")
	analyzeCmd.Flags().StringArrayP("resume", "r", nil, "résumé file to analyze (repeatable)")
	analyzeCmd.Flags().StringP("output", "o", "", "write reports to this file instead of stdout ('-' for a temp file)")

	analyzeCmd.MarkFlagRequired("resume")
	analyzeCmd.MarkFlagsMutuallyExclusive("job", "job-file")
}

// AnalyzedResume is one entry of the analyze command output.
type AnalyzedResume struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	*scoring.Report
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	taxonomy, err := config.taxonomy()
	if err != nil {
		logger.Fatal("building the skill taxonomy", zap.Error(err))
	}

	description, err := jobDescription(cmd)
	if err != nil {
		logger.Fatal("reading the job description", zap.Error(err))
	}

	uploadStore, err := newUploadStore(ctx, config.Uploads)
	if err != nil {
		logger.Fatal("creating the upload store", zap.Error(err))
	}

	reportStore, closeReports, err := newReportStore(ctx, config.Reports, logger)
	if err != nil {
		logger.Fatal("creating the report store", zap.Error(err))
	}
	defer closeReports()

	files, _ := cmd.Flags().GetStringArray("resume")

	results, err := analyzeFiles(ctx, files, description, analyzeDeps{
		analyzer: scoring.NewAnalyzer(taxonomy, logger),
		uploads:  ingestion.NewService(uploadStore, config.Uploads.MaxSize, logger),
		reports:  reportStore,
		logger:   logger,
	})
	if err != nil {
		logger.Fatal("analyzing resumes", zap.Error(err))
	}

	output, _ := cmd.Flags().GetString("output")
	filename, err := writeResults(results, output, cmd.OutOrStdout())
	if err != nil {
		logger.Fatal("writing results", zap.Error(err))
	}
	if filename != "" {
		logger.Info("dumping result to file", zap.String("filename", filename))
	}
}

type analyzeDeps struct {
	analyzer *scoring.Analyzer
	uploads  *ingestion.Service
	reports  reports.Store
	logger   *zap.Logger
}

// analyzeFiles ingests and scores every file concurrently. Results keep the order of files.
func analyzeFiles(ctx context.Context, files []string, description string, deps analyzeDeps) ([]AnalyzedResume, error) {
	results := make([]AnalyzedResume, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(analyzeParallel)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			meta, err := deps.uploads.SaveBytes(ctx, filepath.Base(path), "", data)
			if err != nil {
				return fmt.Errorf("ingest %s: %w", path, err)
			}

			report, err := deps.analyzer.Analyze(scoring.Input{File: meta, JobDescription: description})
			if err != nil {
				return fmt.Errorf("analyze %s: %w", path, err)
			}

			id, err := deps.reports.Save(ctx, report)
			if err != nil {
				return fmt.Errorf("store report for %s: %w", path, err)
			}

			deps.logger.Info("analysis completed", append(logger.ReportFields(id, report), zap.String("source", path))...)

			results[i] = AnalyzedResume{ID: id, Source: path, Report: report}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// jobDescription reads --job, --job-file, piped stdin or, on a terminal, asks for it.
func jobDescription(cmd *cobra.Command) (string, error) {
	if job, _ := cmd.Flags().GetString("job"); job != "" {
		return job, nil
	}

	if path, _ := cmd.Flags().GetString("job-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read job file: %w", err)
		}
		return string(data), nil
	}

	if !isTerminal(os.Stdin) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	prompt := descriptionPrompt()
	return prompt.Run()
}

// descriptionPrompt accepts any answer: a blank description scores from the default base.
func descriptionPrompt() promptui.Prompt {
	return promptui.Prompt{Label: "Job description"}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// writeResults prints the reports to w, or dumps them to a file and returns its name.
func writeResults(results []AnalyzedResume, output string, w io.Writer) (string, error) {
	var file *os.File
	var err error

	switch output {
	case "":
	case dumpToTmpFile:
		file, err = os.CreateTemp("", "reports_*.json")
	default:
		file, err = os.Create(output)
	}
	if err != nil {
		return "", err
	}
	if file != nil {
		defer file.Close()
		w = file
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return "", err
	}

	if file == nil {
		return "", nil
	}
	return file.Name(), nil
}
