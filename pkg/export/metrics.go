// pkg/export/metrics.go
package export

import (
	"encoding/json"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/David-Botos/operator-opinions/pkg/dataset"
	"github.com/David-Botos/operator-opinions/pkg/sink"
)

// RunMetrics tracks one export run
type RunMetrics struct {
	mu              sync.Mutex
	logger          *zap.Logger
	RunID           string
	StartTime       time.Time
	EndTime         time.Time
	RecordsRead     int
	Excluded        int
	Kept            int
	Fallbacks       int
	RowsWritten     int
	BytesWritten    int64
	RowsPerOperator map[string]int
	OutputPath      string
	PeakMemoryUsage int64
	FailedStage     Stage
	Failure         string
}

// NewRunMetrics starts tracking a run under a fresh run id
func NewRunMetrics(logger *zap.Logger) *RunMetrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunMetrics{
		logger:          logger,
		RunID:           uuid.NewString(),
		StartTime:       time.Now(),
		RowsPerOperator: make(map[string]int),
	}
}

// RecordFetch records the number of source records read
func (m *RunMetrics) RecordFetch(records int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RecordsRead = records
	m.sampleMemory()
}

// RecordAssembly copies the assembler counters
func (m *RunMetrics) RecordAssembly(stats dataset.Stats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Excluded = stats.Excluded
	m.Kept = stats.Kept
	m.Fallbacks = stats.Fallbacks
	for op, n := range stats.RowsPerOperator {
		m.RowsPerOperator[op] = n
	}
	m.sampleMemory()
}

// RecordWrite records the written dataset
func (m *RunMetrics) RecordWrite(result sink.WriteResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RowsWritten = result.Rows
	m.BytesWritten = result.Bytes
	m.OutputPath = result.Path
}

// Fail marks the run as failed at stage
func (m *RunMetrics) Fail(stage Stage, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FailedStage = stage
	if err != nil {
		m.Failure = err.Error()
	}
}

// Complete marks the run as finished
func (m *RunMetrics) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EndTime = time.Now()
	m.sampleMemory()

	m.logger.Info("Export run completed",
		zap.String("run_id", m.RunID),
		zap.Time("start", m.StartTime),
		zap.Time("end", m.EndTime),
		zap.Duration("duration", m.duration()),
		zap.Int("records_read", m.RecordsRead),
		zap.Int("rows_written", m.RowsWritten),
		zap.String("failed_stage", m.failedStage()))
}

// Duration returns the total duration of the run
func (m *RunMetrics) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration()
}

func (m *RunMetrics) duration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

func (m *RunMetrics) failedStage() string {
	if m.FailedStage == StageNone {
		return ""
	}
	return m.FailedStage.String()
}

// sampleMemory keeps the peak heap allocation seen so far
func (m *RunMetrics) sampleMemory() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	if alloc := int64(memStats.HeapAlloc); alloc > m.PeakMemoryUsage {
		m.PeakMemoryUsage = alloc
	}
}

// throughput calculates the rows/second throughput
func (m *RunMetrics) throughput() float64 {
	seconds := m.duration().Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(m.RowsWritten) / seconds
}

// formatBytes converts bytes to a human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatDuration formats a duration to a human-readable string
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// getPercentage safely calculates a percentage, avoiding division by zero
func getPercentage(value, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(value) / float64(total) * 100
}

// GenerateMetricsReport creates a human-readable run report
func (m *RunMetrics) GenerateMetricsReport() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	report := fmt.Sprintf(`
Export Run Report
=================
Run ID:                  %s
Duration:                %s
Start Time:              %s
End Time:                %s

Records
-------
Records Read:            %d
Excluded by Flair:       %d (%.1f%%)
Kept:                    %d (%.1f%%)
Seed Fallbacks:          %d (%.1f%% of kept)

Output
------
Rows Written:            %d
File:                    %s
Size:                    %s
Average Throughput:      %.2f rows/sec
Peak Memory Usage:       %s
`,
		m.RunID,
		formatDuration(m.duration()),
		m.StartTime.Format(time.RFC3339),
		m.EndTime.Format(time.RFC3339),

		m.RecordsRead,
		m.Excluded, getPercentage(m.Excluded, m.RecordsRead),
		m.Kept, getPercentage(m.Kept, m.RecordsRead),
		m.Fallbacks, getPercentage(m.Fallbacks, m.Kept),

		m.RowsWritten,
		m.OutputPath,
		formatBytes(m.BytesWritten),
		m.throughput(),
		formatBytes(m.PeakMemoryUsage),
	)

	if len(m.RowsPerOperator) > 0 {
		report += "\nRows per Operator\n-----------------\n"
		ops := make([]string, 0, len(m.RowsPerOperator))
		for op := range m.RowsPerOperator {
			ops = append(ops, op)
		}
		slices.Sort(ops)
		for _, op := range ops {
			n := m.RowsPerOperator[op]
			report += fmt.Sprintf("- %s: %d (%.1f%%)\n", op, n, getPercentage(n, m.RowsWritten))
		}
	}

	if m.FailedStage != StageNone {
		report += fmt.Sprintf("\nFailed at %s stage: %s\n", m.FailedStage, m.Failure)
	}

	return report
}

// ToJSON serializes metrics to JSON
func (m *RunMetrics) ToJSON() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return json.MarshalIndent(struct {
		RunID           string         `json:"run_id"`
		StartTime       time.Time      `json:"start_time"`
		EndTime         time.Time      `json:"end_time"`
		Duration        string         `json:"duration"`
		RecordsRead     int            `json:"records_read"`
		Excluded        int            `json:"excluded"`
		Kept            int            `json:"kept"`
		Fallbacks       int            `json:"fallbacks"`
		RowsWritten     int            `json:"rows_written"`
		BytesWritten    int64          `json:"bytes_written"`
		RowsPerOperator map[string]int `json:"rows_per_operator"`
		OutputPath      string         `json:"output_path,omitempty"`
		Throughput      float64        `json:"throughput"`
		PeakMemoryUsage int64          `json:"peak_memory_usage"`
		FailedStage     string         `json:"failed_stage,omitempty"`
		Failure         string         `json:"failure,omitempty"`
	}{
		RunID:           m.RunID,
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		Duration:        formatDuration(m.duration()),
		RecordsRead:     m.RecordsRead,
		Excluded:        m.Excluded,
		Kept:            m.Kept,
		Fallbacks:       m.Fallbacks,
		RowsWritten:     m.RowsWritten,
		BytesWritten:    m.BytesWritten,
		RowsPerOperator: m.RowsPerOperator,
		OutputPath:      m.OutputPath,
		Throughput:      m.throughput(),
		PeakMemoryUsage: m.PeakMemoryUsage,
		FailedStage:     m.failedStage(),
		Failure:         m.Failure,
	}, "", "  ")
}
