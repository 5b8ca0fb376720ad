// Package stats records per-frame World.Update accounting to a CSV file, one
// row per frame, for offline analysis of scheduler behavior.
package stats

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// FrameRecord is one World.Update call's accounting, widened with the frame
// index and wall-clock duration the host measured around the call.
type FrameRecord struct {
	Frame              int64   `csv:"frame"`
	FrameMicros        int64   `csv:"frame_us"`
	ChunkUpdates       uint64  `csv:"chunk_updates"`
	RegionUpdates      uint64  `csv:"region_updates"`
	LoadedRegions      int     `csv:"loaded_regions"`
	LoadingRegions     int     `csv:"loading_regions"`
	CompressedRegions  int     `csv:"compressed_regions"`
	CompressingRegions int     `csv:"compressing_regions"`
}

// Recorder appends FrameRecords to a CSV file, writing the header once on
// the first row. A nil *Recorder is valid and every method on it is a no-op,
// the same "disabled if unconfigured" shape as the teacher's output manager.
type Recorder struct {
	file          *os.File
	headerWritten bool
}

// NewRecorder creates path (truncating any existing file) and returns a
// Recorder writing to it. Passing an empty path returns a nil *Recorder,
// which silently discards every Write call.
func NewRecorder(path string) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("stats: creating %s: %w", path, err)
	}
	return &Recorder{file: f}, nil
}

// Write appends one frame's record. Safe to call on a nil Recorder.
func (r *Recorder) Write(rec FrameRecord) error {
	if r == nil {
		return nil
	}

	records := []FrameRecord{rec}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.file); err != nil {
			return fmt.Errorf("stats: writing header row: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.file); err != nil {
		return fmt.Errorf("stats: writing frame row: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file. Safe to call on a nil
// Recorder.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	return r.file.Close()
}
