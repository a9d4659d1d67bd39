package analysis

import "time"

// ScanStats summarizes a batch scan.
type ScanStats struct {
	FilesScanned int           `json:"files_scanned" yaml:"files_scanned"`
	FilesFailed  int           `json:"files_failed" yaml:"files_failed"`
	Dependencies int           `json:"dependencies" yaml:"dependencies"`
	Functions    int           `json:"functions" yaml:"functions"`
	Annotations  int           `json:"annotations" yaml:"annotations"`
	Cycles       int           `json:"cycles" yaml:"cycles"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
}

// ProgressReporter provides callbacks for reporting batch scan progress.
// Calls are serialized by the BatchScanner, so implementations need no locking.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called with the number of files selected for scanning.
	OnDiscoveryComplete(totalFiles int)

	// OnFileProcessed is called after each file, whether or not it failed.
	OnFileProcessed(path string)

	// OnGraphBuilt is called once the import graph is assembled.
	OnGraphBuilt(fileCount, edgeCount int, duration time.Duration)

	// OnComplete is called when the scan completes successfully.
	OnComplete(stats *ScanStats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()                                      {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(totalFiles int)                     {}
func (n *NoOpProgressReporter) OnFileProcessed(path string)                            {}
func (n *NoOpProgressReporter) OnGraphBuilt(fileCount, edgeCount int, d time.Duration) {}
func (n *NoOpProgressReporter) OnComplete(stats *ScanStats)                            {}
