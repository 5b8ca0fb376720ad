package world

import (
	"runtime"
	"sync"

	"github.com/jakemcleman/sandsim/internal/gridmath"
	"github.com/jakemcleman/sandsim/internal/profiling"
)

type jobKind uint8

const (
	jobGenerate jobKind = iota
	jobDecompress
	jobCompress
)

type regionJob struct {
	kind       jobKind
	pos        gridmath.GridVec
	compressed *CompressedRegion // set for jobDecompress
	region     *Region           // set for jobCompress
	seed       int64
}

// loadResult is a completed generate-or-decompress task, ready to become
// resident.
type loadResult struct {
	pos    gridmath.GridVec
	region *Region
}

// unloadResult is a completed compress task, ready to move to the
// compressed set.
type unloadResult struct {
	pos        gridmath.GridVec
	compressed *CompressedRegion
}

// Streamer runs region generate/decompress/compress work on a background
// worker pool and publishes results through buffered channels. Each job has
// exactly one producer (a worker) and one consumer (the host thread polling
// at the top of a frame); channels give that one-shot handoff for free
// without a hand-rolled mutex-and-atomic-ready-flag cell.
type Streamer struct {
	jobs chan regionJob

	mu             sync.Mutex
	pendingLoads   map[gridmath.GridVec]struct{}
	pendingUnloads map[gridmath.GridVec]struct{}

	completedLoads   chan loadResult
	completedUnloads chan unloadResult

	generator WorldGenerator
}

// NewStreamer starts a worker pool sized to the host's CPU count.
func NewStreamer(generator WorldGenerator) *Streamer {
	s := &Streamer{
		jobs:             make(chan regionJob, 4096),
		pendingLoads:     make(map[gridmath.GridVec]struct{}),
		pendingUnloads:   make(map[gridmath.GridVec]struct{}),
		completedLoads:   make(chan loadResult, 256),
		completedUnloads: make(chan unloadResult, 256),
		generator:        generator,
	}

	workers := max(runtime.NumCPU(), 1)
	for i := 0; i < workers; i++ {
		go s.worker()
	}

	return s
}

// Close stops the background workers. No in-flight job is interrupted.
func (s *Streamer) Close() {
	close(s.jobs)
}

func (s *Streamer) worker() {
	for job := range s.jobs {
		switch job.kind {
		case jobGenerate:
			stop := profiling.Track("world.streamer.generate")
			region := NewRegion(job.pos, s.generator, job.seed)
			_ = region.GenerateTerrain()
			stop()
			s.completedLoads <- loadResult{pos: job.pos, region: region}
		case jobDecompress:
			stop := profiling.Track("world.streamer.decompress")
			region := RegionFromCompressed(job.compressed, s.generator)
			stop()
			s.completedLoads <- loadResult{pos: job.pos, region: region}
		case jobCompress:
			stop := profiling.Track("world.streamer.compress")
			compressed := job.region.CompressRegion()
			stop()
			s.completedUnloads <- unloadResult{pos: job.pos, compressed: compressed}
		}
	}
}

func (s *Streamer) clearPendingLoad(pos gridmath.GridVec) {
	s.mu.Lock()
	delete(s.pendingLoads, pos)
	s.mu.Unlock()
}

func (s *Streamer) clearPendingUnload(pos gridmath.GridVec) {
	s.mu.Lock()
	delete(s.pendingUnloads, pos)
	s.mu.Unlock()
}

// EnqueueGenerate starts a fresh-terrain load for pos. Returns false if a
// load for pos is already in flight or the job queue is full.
func (s *Streamer) EnqueueGenerate(pos gridmath.GridVec, seed int64) bool {
	return s.enqueueLoad(regionJob{kind: jobGenerate, pos: pos, seed: seed})
}

// EnqueueDecompress starts resurrecting a region from its snapshot. Returns
// false if a load for pos is already in flight or the job queue is full.
func (s *Streamer) EnqueueDecompress(compressed *CompressedRegion) bool {
	return s.enqueueLoad(regionJob{kind: jobDecompress, pos: compressed.Position, compressed: compressed})
}

func (s *Streamer) enqueueLoad(job regionJob) bool {
	s.mu.Lock()
	if _, ok := s.pendingLoads[job.pos]; ok {
		s.mu.Unlock()
		return false
	}
	s.pendingLoads[job.pos] = struct{}{}
	s.mu.Unlock()

	select {
	case s.jobs <- job:
		return true
	default:
		s.clearPendingLoad(job.pos)
		return false
	}
}

// EnqueueCompress starts compressing a resident region for eviction. Returns
// false if an unload for its position is already in flight or the job queue
// is full.
func (s *Streamer) EnqueueCompress(r *Region) bool {
	s.mu.Lock()
	if _, ok := s.pendingUnloads[r.Position]; ok {
		s.mu.Unlock()
		return false
	}
	s.pendingUnloads[r.Position] = struct{}{}
	s.mu.Unlock()

	job := regionJob{kind: jobCompress, pos: r.Position, region: r}
	select {
	case s.jobs <- job:
		return true
	default:
		s.clearPendingUnload(r.Position)
		return false
	}
}

// DrainOneLoad takes at most one completed load, FIFO, non-blocking. A
// position stays pending, and so counts as loading, until its result is
// taken here.
func (s *Streamer) DrainOneLoad() (loadResult, bool) {
	select {
	case res := <-s.completedLoads:
		s.clearPendingLoad(res.pos)
		return res, true
	default:
		return loadResult{}, false
	}
}

// DrainAllUnloads takes every completed unload currently available,
// non-blocking. A position stays pending, and so counts as unloading, until
// its result is taken here.
func (s *Streamer) DrainAllUnloads() []unloadResult {
	var results []unloadResult
	for {
		select {
		case res := <-s.completedUnloads:
			s.clearPendingUnload(res.pos)
			results = append(results, res)
		default:
			return results
		}
	}
}

// IsLoading reports whether a load for pos is in flight or completed but not
// yet drained.
func (s *Streamer) IsLoading(pos gridmath.GridVec) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pendingLoads[pos]
	return ok
}

// IsUnloading reports whether an unload for pos is in flight or completed but
// not yet drained.
func (s *Streamer) IsUnloading(pos gridmath.GridVec) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pendingUnloads[pos]
	return ok
}

// LoadingCount and UnloadingCount report how many loads/unloads are
// currently in flight or awaiting drain, for stats reporting.
func (s *Streamer) LoadingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pendingLoads)
}

func (s *Streamer) UnloadingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pendingUnloads)
}
