// Command reportfill fills document and slide-deck templates from a report
// document produced by the upstream research pipeline.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"reportfill/internal/config"
	"reportfill/pkg/fill"
	"reportfill/pkg/report"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

type job struct {
	template string
	output   string
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("reportfill", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		flagReport   string
		flagTemplate string
		flagOutput   string
		flagMaxNews  int
		flagQuiet    bool
	)
	fs.StringVar(&flagReport, "report", "", "report JSON path (default: newest report under the output dir)")
	fs.StringVar(&flagTemplate, "template", "", "template .docx or .pptx path (default: newest of each kind under the template dir)")
	fs.StringVar(&flagOutput, "output", "", "output path (only with -template; default derived from template and report period)")
	fs.IntVar(&flagMaxNews, "max-news", 0, "cap news items per section (default from config)")
	fs.BoolVar(&flagQuiet, "quiet", false, "errors only")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	// load .env before config reads the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "reportfill: %v\n", err)
		return 1
	}

	level := cfg.LogLevel()
	if flagQuiet {
		level = fill.LogError
	}
	logger := fill.NewLogger(stderr, level)
	fill.SetDefaultLogger(logger)

	if flagOutput != "" && flagTemplate == "" {
		fmt.Fprintln(stderr, "reportfill: -output requires -template")
		return 1
	}

	reportPath := flagReport
	if reportPath == "" {
		reportPath, err = report.LatestReport(cfg.Output.Dir)
		if err != nil {
			fmt.Fprintf(stderr, "reportfill: %v\n", err)
			return 1
		}
		logger.WithField("report", reportPath).Info("using newest report document")
	}

	rep, err := report.Load(reportPath)
	if err != nil {
		fmt.Fprintf(stderr, "reportfill: %v\n", err)
		return 1
	}

	maxNews := flagMaxNews
	if maxNews <= 0 {
		maxNews = cfg.News.Max
	}
	vals := rep.Values(maxNews)

	jobs, err := resolveJobs(cfg, rep, flagTemplate, flagOutput, logger)
	if err != nil {
		fmt.Fprintf(stderr, "reportfill: %v\n", err)
		return 1
	}

	failures := 0
	for _, j := range jobs {
		if err := os.MkdirAll(filepath.Dir(j.output), 0o755); err != nil {
			fmt.Fprintf(stderr, "reportfill: %s: %v\n", j.template, err)
			failures++
			continue
		}
		outcome, err := fill.FillFile(j.template, j.output, vals)
		if err != nil {
			fmt.Fprintf(stderr, "reportfill: %s: %v\n", j.template, err)
			failures++
			continue
		}
		logger.WithFields(fill.Fields{
			"template": j.template,
			"output":   j.output,
			"strategy": outcome.Strategy,
			"matched":  len(outcome.Matched),
			"pruned":   outcome.PrunedSlides,
		}).Info("template filled")
	}

	if failures > 0 {
		return 1
	}
	return 0
}

// resolveJobs turns the flags into the list of template fills to run. With
// no -template, the newest template of each kind is taken; a kind with no
// template present is skipped, but finding neither is an error.
func resolveJobs(cfg config.Config, rep *report.Report, template, output string, logger *fill.Logger) ([]job, error) {
	if template != "" {
		if output == "" {
			output = deriveOutput(cfg.Output.Dir, template, rep)
		}
		return []job{{template: template, output: output}}, nil
	}

	var jobs []job
	for _, ext := range []string{".docx", ".pptx"} {
		path, err := report.LatestTemplate(cfg.Templates.Dir, ext)
		if err != nil {
			logger.WithField("ext", ext).Warn("no template of this kind: %v", err)
			continue
		}
		jobs = append(jobs, job{template: path, output: deriveOutput(cfg.Output.Dir, path, rep)})
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no templates found under %s", cfg.Templates.Dir)
	}
	return jobs, nil
}

// deriveOutput names the output after the template and the report window.
func deriveOutput(outputDir, template string, rep *report.Report) string {
	ext := filepath.Ext(template)
	stem := strings.TrimSuffix(filepath.Base(template), ext)
	return filepath.Join(outputDir, stem+"_"+rep.PeriodToken()+strings.ToLower(ext))
}
