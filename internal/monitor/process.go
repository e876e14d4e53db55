// Package monitor samples resource usage of the running process so a
// training report can state what the run cost.
package monitor

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// Snapshot is the resource usage of the current process at one instant.
type Snapshot struct {
	Taken      time.Time `json:"taken"`
	RSSBytes   uint64    `json:"rss_bytes"`
	UserCPU    float64   `json:"user_cpu_seconds"`
	SystemCPU  float64   `json:"system_cpu_seconds"`
	NumThreads int32     `json:"num_threads"`
}

// Usage is the difference between two snapshots.
type Usage struct {
	Wall          time.Duration `json:"wall"`
	CPUSeconds    float64       `json:"cpu_seconds"`
	PeakRSSBytes  uint64        `json:"peak_rss_bytes"`
	RSSDeltaBytes int64         `json:"rss_delta_bytes"`
}

// Sampler reads snapshots of one process.
type Sampler struct {
	proc *process.Process
}

// NewSampler creates a sampler for the current process.
func NewSampler() (*Sampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Sampler{proc: proc}, nil
}

// Collect takes a snapshot. Fields that cannot be read stay zero; the
// first error is returned alongside the partial snapshot.
func (s *Sampler) Collect() (Snapshot, error) {
	snap := Snapshot{Taken: time.Now()}
	var firstErr error

	mem, err := s.proc.MemoryInfo()
	if err == nil {
		snap.RSSBytes = mem.RSS
	} else if firstErr == nil {
		firstErr = err
	}

	times, err := s.proc.Times()
	if err == nil {
		snap.UserCPU = times.User
		snap.SystemCPU = times.System
	} else if firstErr == nil {
		firstErr = err
	}

	threads, err := s.proc.NumThreads()
	if err == nil {
		snap.NumThreads = threads
	} else if firstErr == nil {
		firstErr = err
	}

	return snap, firstErr
}

// Since returns the usage between before and after.
func Since(before, after Snapshot) Usage {
	peak := after.RSSBytes
	if before.RSSBytes > peak {
		peak = before.RSSBytes
	}

	return Usage{
		Wall:          after.Taken.Sub(before.Taken),
		CPUSeconds:    (after.UserCPU + after.SystemCPU) - (before.UserCPU + before.SystemCPU),
		PeakRSSBytes:  peak,
		RSSDeltaBytes: int64(after.RSSBytes) - int64(before.RSSBytes),
	}
}
