package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// RunInfo describes a batch run in the report header.
type RunInfo struct {
	Source      string  `yaml:"source"`
	SampleSize  int     `yaml:"samplesize"`
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	Timestamp   string  `yaml:"timestamp"`
}

type reportEntry struct {
	Input    string `yaml:"input"`
	Status   string `yaml:"status"`
	EntryID  uint64 `yaml:"entryid,omitempty"`
	Error    string `yaml:"error,omitempty"`
	Recorded string `yaml:"recorded"`
}

// Report is the YAML document written after a batch run.
type Report struct {
	Run     RunInfo        `yaml:"run"`
	Summary map[string]int `yaml:"summary"`
	Results []reportEntry  `yaml:"results"`
}

// Report snapshots the journal.
func (j *Journal) Report(run RunInfo) Report {
	if run.Timestamp == "" {
		run.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}

	all := j.All()
	report := Report{
		Run:     run,
		Summary: j.Summary(),
		Results: make([]reportEntry, 0, len(all)),
	}
	for _, o := range all {
		report.Results = append(report.Results, reportEntry{
			Input:    o.Input,
			Status:   o.Status,
			EntryID:  o.EntryID,
			Error:    o.Error,
			Recorded: o.Recorded.Format(time.RFC3339),
		})
	}
	return report
}

// SaveYAML writes the journal report to path, creating parent directories.
func (j *Journal) SaveYAML(path string, run RunInfo) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	data, err := yaml.Marshal(j.Report(run))
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
