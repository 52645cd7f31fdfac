package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/reliefscout/reliefscout/internal/model"
)

// Analyzer is the pipeline surface batch jobs need
type Analyzer interface {
	Analyze(ctx context.Context, req model.IntakeRequest) (*model.DisasterReport, error)
	AnalyzeURL(ctx context.Context, rawURL string, req model.IntakeRequest) (*model.DisasterReport, error)
}

// AnalyzeJob processes one batch line. Lines are either a URL, or
// "platform<TAB>text", or bare report text.
type AnalyzeJob struct {
	Line       string
	ReceivedAt time.Time
	Analyzer   Analyzer
	Limiter    *Limiter
}

// Execute runs the job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	req := model.IntakeRequest{ReceivedAt: j.ReceivedAt}

	if isURL(j.Line) {
		if j.Limiter != nil {
			if err := j.Limiter.Wait(ctx, j.Line); err != nil {
				return &AnalyzeResult{Input: j.Line, Error: err}
			}
		}
		report, err := j.Analyzer.AnalyzeURL(ctx, j.Line, req)
		return &AnalyzeResult{Input: j.Line, Report: report, Error: err}
	}

	req.RawText = j.Line
	if platform, text, ok := strings.Cut(j.Line, "\t"); ok {
		req.SourcePlatform = strings.TrimSpace(platform)
		req.RawText = strings.TrimSpace(text)
	}

	report, err := j.Analyzer.Analyze(ctx, req)
	return &AnalyzeResult{Input: j.Line, Report: report, Error: err}
}

// AnalyzeResult pairs a batch line with its report or failure
type AnalyzeResult struct {
	Input  string
	Report *model.DisasterReport
	Error  error
}

// GetError returns the job's error, if any
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor runs many intake lines through the pipeline
// concurrently, rate-limited per origin host for URL lines.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		limiter:     NewLimiter(requestsPerSecond, burst),
	}
}

// ProcessLines analyzes the given intake lines concurrently.
func (b *BatchProcessor) ProcessLines(ctx context.Context, lines []string, receivedAt time.Time) []*AnalyzeResult {
	if len(lines) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, line := range lines {
		pool.Submit(&AnalyzeJob{
			Line:       line,
			ReceivedAt: receivedAt,
			Analyzer:   b.analyzer,
			Limiter:    b.limiter,
		})
	}

	results := pool.Wait()

	analyzeResults := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		analyzeResults[i] = result.(*AnalyzeResult)
	}

	return analyzeResults
}

// ProcessFile reads intake lines from a file and analyzes them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string, receivedAt time.Time) ([]*AnalyzeResult, error) {
	lines, err := ReadIntakeLines(filePath)
	if err != nil {
		return nil, fmt.Errorf("read intake file: %w", err)
	}

	return b.ProcessLines(ctx, lines, receivedAt), nil
}

// ReadIntakeLines reads one report per line, skipping blanks and
// comments and dropping duplicate lines.
func ReadIntakeLines(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return lines, nil
}

func isURL(line string) bool {
	return strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://")
}
