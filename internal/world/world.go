package world

import (
	"math"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jakemcleman/sandsim/internal/config"
	"github.com/jakemcleman/sandsim/internal/gridmath"
	"github.com/jakemcleman/sandsim/internal/logx"
	"github.com/jakemcleman/sandsim/internal/particle"
	"github.com/jakemcleman/sandsim/internal/profiling"
)

// WORLD_WIDTH/WORLD_HEIGHT are the original engine's soft overall play-area
// extent, in chunks. The camera that clamped to them is out of scope here,
// and nothing in this module reads them.
const (
	WorldWidth  = 1440
	WorldHeight = 960
)

// defaultStalenessThreshold etc. back a World built without reading
// internal/config, e.g. in tests that construct scheduler scenarios
// directly.
const (
	defaultStalenessThreshold   = 12
	defaultMaxRegionsAdvanced   = 16
	defaultVisiblePriorityBoost = 65536
)

// WorldUpdateStats is the per-frame accounting World.Update returns.
type WorldUpdateStats struct {
	ChunkUpdates       uint64
	LoadedRegions      int
	LoadingRegions     int
	CompressedRegions  int
	CompressingRegions int
	RegionUpdates      uint64
}

// WorldUpdateOptions tunes a single World.Update call.
type WorldUpdateOptions struct {
	ForceCompressDecompressAll bool
}

// World owns the resident region set, the compressed (dormant) region set,
// and the background streamer that moves regions between them. All of its
// exported methods except queries are meant to be called from a single host
// thread, once per frame; background load/unload work happens off that
// thread and is reconciled at the top of Update.
type World struct {
	mu sync.Mutex

	regions           map[gridmath.GridVec]*Region
	compressedRegions map[gridmath.GridVec]*CompressedRegion
	removedChunks     []gridmath.GridVec

	streamer  *Streamer
	generator WorldGenerator
	seedBase  int64

	rng *rand.Rand

	logger logx.Logger

	stalenessThreshold   uint64
	maxRegionsAdvanced   int
	visiblePriorityBoost uint64
}

// New builds a World with no resident regions, backed by generator. A nil
// logger is replaced with a silent one. Scheduler tunables start from
// internal/config's current settings; call SetSchedulerConfig to change them
// later, e.g. in response to a live config reload.
func New(generator WorldGenerator, seedBase int64, logger logx.Logger) *World {
	if logger == nil {
		logger = logx.NewNopLogger()
	}
	w := &World{
		regions:           make(map[gridmath.GridVec]*Region),
		compressedRegions: make(map[gridmath.GridVec]*CompressedRegion),
		streamer:          NewStreamer(generator),
		generator:         generator,
		seedBase:          seedBase,
		rng:               rand.New(rand.NewSource(seedBase)),
		logger:            logger,

		stalenessThreshold:   defaultStalenessThreshold,
		maxRegionsAdvanced:   defaultMaxRegionsAdvanced,
		visiblePriorityBoost: defaultVisiblePriorityBoost,
	}
	w.SetSchedulerConfig(config.GetScheduler())
	return w
}

// SetSchedulerConfig retunes the region scheduler's eviction threshold,
// per-frame region cap, and visible-region priority boost.
func (w *World) SetSchedulerConfig(cfg config.SchedulerConfig) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if cfg.StalenessThreshold > 0 {
		w.stalenessThreshold = cfg.StalenessThreshold
	}
	if cfg.MaxRegionsAdvanced > 0 {
		w.maxRegionsAdvanced = cfg.MaxRegionsAdvanced
	}
	if cfg.VisiblePriorityBoost > 0 {
		w.visiblePriorityBoost = cfg.VisiblePriorityBoost
	}
}

// Close stops the background worker pool.
func (w *World) Close() {
	w.streamer.Close()
}

// GetChunkpos maps a world cell position to its owning chunk coordinate.
func GetChunkpos(pos gridmath.GridVec) gridmath.GridVec {
	return gridmath.FloorDivVec(pos, ChunkSize)
}

// GetRegionposForChunkpos maps a chunk coordinate to its owning region
// coordinate.
func GetRegionposForChunkpos(chunkpos gridmath.GridVec) gridmath.GridVec {
	return gridmath.FloorDivVec(chunkpos, RegionSize)
}

// GetRegionposForPos maps a world cell position directly to its region
// coordinate.
func GetRegionposForPos(pos gridmath.GridVec) gridmath.GridVec {
	return GetRegionposForChunkpos(GetChunkpos(pos))
}

func (w *World) hasRegion(regpos gridmath.GridVec) bool {
	_, ok := w.regions[regpos]
	return ok
}

// addRegion requests that a region become resident, if it isn't already and
// isn't already loading. A matching compressed snapshot is decompressed;
// otherwise fresh terrain is generated. Idempotent: repeated calls before the
// load completes enqueue nothing further.
func (w *World) addRegion(regpos gridmath.GridVec) {
	if w.hasRegion(regpos) || w.streamer.IsLoading(regpos) || w.streamer.IsUnloading(regpos) {
		return
	}

	if compressed, ok := w.compressedRegions[regpos]; ok {
		delete(w.compressedRegions, regpos)
		w.streamer.EnqueueDecompress(compressed)
		return
	}

	seed := w.seedBase ^ int64(regpos.Combined())
	w.streamer.EnqueueGenerate(regpos, seed)
}

func (w *World) addRegionIfNeeded(regpos gridmath.GridVec) {
	if !w.hasRegion(regpos) {
		w.addRegion(regpos)
	}
}

func (w *World) linkRegion(added *Region) {
	for _, existing := range w.regions {
		existing.CheckAddNeighbor(added)
	}
	w.regions[added.Position] = added
}

func (w *World) removeRegion(regpos gridmath.GridVec) {
	region, ok := w.regions[regpos]
	if !ok {
		return
	}
	delete(w.regions, regpos)
	w.removedChunks = append(w.removedChunks, region.ChunkPositions()...)
	for _, remaining := range w.regions {
		remaining.CheckRemoveNeighbor(regpos)
	}
}

// drainLoads moves at most one completed load into the resident set, FIFO.
func (w *World) drainLoads() {
	res, ok := w.streamer.DrainOneLoad()
	if !ok {
		return
	}
	w.linkRegion(res.region)
	w.logger.Infof("region %s loaded", res.pos)
}

// drainUnloads moves every completed unload into the compressed set.
func (w *World) drainUnloads() {
	for _, res := range w.streamer.DrainAllUnloads() {
		w.compressedRegions[res.pos] = res.compressed
		w.logger.Infof("region %s compressed", res.pos)
	}
}

// expandedVisibleRegions returns the region-coordinate rectangle covering
// visible plus a one-region margin on every side.
func expandedVisibleRegions(visible gridmath.GridBounds) gridmath.GridBounds {
	bottomLeft := GetRegionposForPos(visible.BottomLeft).Sub(gridmath.GridVec{X: 1, Y: 1})
	topRight := GetRegionposForPos(visible.TopRight).Add(gridmath.GridVec{X: 2, Y: 2})
	return gridmath.NewGridBoundsFromExtents(bottomLeft, topRight)
}

func (w *World) evictIdleRegions(visibleRegions gridmath.GridBounds, staleness uint64, forceAll bool) {
	var toRemove []gridmath.GridVec
	for pos, region := range w.regions {
		if forceAll || (region.Staleness > staleness && !visibleRegions.Contains(pos)) {
			w.streamer.EnqueueCompress(region)
			toRemove = append(toRemove, pos)
		}
	}
	for _, pos := range toRemove {
		w.removeRegion(pos)
	}
}

// Update runs exactly one frame of the scheduler: reconcile background
// work, keep the visible rectangle resident, evict idle regions, pick a
// priority-weighted subset to advance within the chunk-update budget, and
// run them. It blocks until every chosen region has completed its four
// update phases.
func (w *World) Update(visible gridmath.GridBounds, targetChunkUpdates uint64, options WorldUpdateOptions) WorldUpdateStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	func() {
		defer profiling.Track("world.reconcileStreamer")()
		w.drainLoads()
		w.drainUnloads()
	}()

	visibleRegions := expandedVisibleRegions(visible)
	func() {
		defer profiling.Track("world.requestVisibleRegions")()
		for it := visibleRegions.Iter(); ; {
			pos, ok := it.Next()
			if !ok {
				break
			}
			w.addRegionIfNeeded(pos)
		}
	}()

	func() {
		defer profiling.Track("world.evictIdleRegions")()
		w.evictIdleRegions(visibleRegions, w.stalenessThreshold, options.ForceCompressDecompressAll)
	}()

	regions := make([]*Region, 0, len(w.regions))
	for _, r := range w.regions {
		regions = append(regions, r)
	}

	visibleRegionCount := visibleRegions.Area()
	if visibleRegionCount < 1 {
		visibleRegionCount = 1
	}
	visibleBoost := w.visiblePriorityBoost / uint64(visibleRegionCount)

	priorities := make([]uint64, len(regions))
	estimates := make([]uint64, len(regions))
	for i, r := range regions {
		priorities[i] = r.UpdatePriority
		if r.Bounds().Overlaps(visible) {
			priorities[i] += visibleBoost
		}
		estimates[i] = r.LastChunkUpdates
	}

	toUpdateIdx, toSkipIdx := selectRegions(priorities, estimates, targetChunkUpdates, w.maxRegionsAdvanced)

	defer profiling.Track("world.commitAndStep")()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var g errgroup.Group
		for _, i := range toUpdateIdx {
			r := regions[i]
			g.Go(func() error {
				r.CommitUpdates()
				return nil
			})
		}
		_ = g.Wait()
	}()
	go func() {
		defer wg.Done()
		var g errgroup.Group
		for _, i := range toSkipIdx {
			r := regions[i]
			g.Go(func() error {
				r.SkipUpdate()
				return nil
			})
		}
		_ = g.Wait()
	}()
	wg.Wait()

	shift := w.rng.Intn(4)
	var chunkUpdates uint64
	var chunkUpdatesMu sync.Mutex
	for i := 0; i < 4; i++ {
		phase := (i + shift) % 4
		var g errgroup.Group
		for _, idx := range toUpdateIdx {
			r := regions[idx]
			g.Go(func() error {
				if r.Staleness != 0 {
					return nil
				}
				updated := r.Update(phase)
				chunkUpdatesMu.Lock()
				chunkUpdates += updated
				chunkUpdatesMu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}

	return WorldUpdateStats{
		ChunkUpdates:       chunkUpdates,
		LoadedRegions:      len(w.regions),
		LoadingRegions:     w.streamer.LoadingCount(),
		CompressedRegions:  len(w.compressedRegions),
		CompressingRegions: w.streamer.UnloadingCount(),
		RegionUpdates:      uint64(len(toUpdateIdx)),
	}
}

func (w *World) regionAt(pos gridmath.GridVec) (*Region, bool) {
	r, ok := w.regions[pos]
	return r, ok
}

func (w *World) chunkAt(chunkpos gridmath.GridVec) (*Chunk, bool) {
	regpos := GetRegionposForChunkpos(chunkpos)
	r, ok := w.regionAt(regpos)
	if !ok {
		return nil, false
	}
	return r.ChunkAt(chunkpos)
}

func chunklocal(pos gridmath.GridVec) (chunkpos gridmath.GridVec, local gridmath.GridVec) {
	chunkpos = GetChunkpos(pos)
	local = gridmath.PosModVec(pos, ChunkSize)
	return chunkpos, local
}

// GetParticle returns the particle at pos, or a Boundary particle if pos
// falls in no resident region.
func (w *World) GetParticle(pos gridmath.GridVec) particle.Particle {
	w.mu.Lock()
	defer w.mu.Unlock()

	chunkpos, local := chunklocal(pos)
	c, ok := w.chunkAt(chunkpos)
	if !ok {
		return particle.New(particle.Boundary)
	}
	return c.Get(local.X, local.Y)
}

// ensureResidentFor loads the region owning pos if it is not already
// resident. Returns false if the edit must be dropped this frame because the
// region was not already resident.
func (w *World) ensureResidentFor(pos gridmath.GridVec) (*Chunk, bool) {
	chunkpos, _ := chunklocal(pos)
	regpos := GetRegionposForChunkpos(chunkpos)
	if !w.hasRegion(regpos) {
		w.addRegion(regpos)
		return nil, false
	}
	return w.chunkAt(chunkpos)
}

// ReplaceParticle overwrites whatever is at pos. Dropped for this frame if
// pos's region is not yet resident (a load is enqueued instead).
func (w *World) ReplaceParticle(pos gridmath.GridVec, p particle.Particle) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.ensureResidentFor(pos)
	if !ok {
		return
	}
	_, local := chunklocal(pos)
	c.Set(local.X, local.Y, p)
}

// AddParticle places p at pos only if the cell is empty.
func (w *World) AddParticle(pos gridmath.GridVec, p particle.Particle) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.ensureResidentFor(pos)
	if !ok {
		return
	}
	_, local := chunklocal(pos)
	c.Add(local.X, local.Y, p)
}

// ReplaceParticleFiltered overwrites pos with p only if the existing kind is
// in replaceTypes, returning the replaced kind.
func (w *World) ReplaceParticleFiltered(pos gridmath.GridVec, p particle.Particle, replaceTypes particle.Set) (particle.Kind, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.ensureResidentFor(pos)
	if !ok {
		return particle.Air, false
	}
	_, local := chunklocal(pos)
	return c.ReplaceFiltered(local.X, local.Y, p, replaceTypes)
}

func circleBounds(pos gridmath.GridVec, radius int32) (left, right, bottom, top int32) {
	return pos.X - radius, pos.X + radius, pos.Y - radius, pos.Y + radius
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// PlaceCircle fills every cell within radius of pos with p. When replace is
// true existing particles are overwritten; otherwise only empty cells are
// filled.
func (w *World) PlaceCircle(pos gridmath.GridVec, radius int32, p particle.Particle, replace bool) {
	left, right, bottom, top := circleBounds(pos, radius)
	radiusSq := int64(radius) * int64(radius)

	for y := bottom; y < top; y++ {
		for x := left; x < right; x++ {
			cell := gridmath.GridVec{X: x, Y: y}
			if pos.SqDistance(cell) >= radiusSq {
				continue
			}
			if replace {
				w.ReplaceParticle(cell, p)
			} else {
				w.AddParticle(cell, p)
			}
		}
	}
}

// ClearCircle replaces every cell within radius of pos with Air.
func (w *World) ClearCircle(pos gridmath.GridVec, radius int32) {
	w.PlaceCircle(pos, radius, particle.Default(), true)
}

// TempChangeCircle heats or cools cells within radius of pos toward
// temperature, with a probability that is strongest at the center and falls
// off linearly to strength at the edge.
func (w *World) TempChangeCircle(pos gridmath.GridVec, radius int32, strength float64, temperature int32) {
	left, right, bottom, top := circleBounds(pos, radius)
	radiusSq := int64(radius) * int64(radius)

	w.mu.Lock()
	rng := rand.New(rand.NewSource(w.rng.Int63()))
	w.mu.Unlock()

	for y := bottom; y < top; y++ {
		for x := left; x < right; x++ {
			cell := gridmath.GridVec{X: x, Y: y}
			sq := pos.SqDistance(cell)
			if sq >= radiusSq {
				continue
			}
			radialT := math.Sqrt(float64(sq)) / float64(radius)
			localStrength := 0.5 - radialT*(0.5-strength)
			if rng.Float64() >= localStrength {
				continue
			}
			w.setParticleTemperature(cell, temperature, rng)
		}
	}
}

func (w *World) setParticleTemperature(pos gridmath.GridVec, temperature int32, rng *rand.Rand) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.ensureResidentFor(pos)
	if !ok {
		return
	}
	_, local := chunklocal(pos)
	p := c.Get(local.X, local.Y)
	if newKind, changed := particle.TryStateChange(p.Kind, temperature, rng); changed {
		c.Set(local.X, local.Y, particle.New(newKind))
	}
}

// BreakCircle probabilistically turns Stone within radius of pos into
// Gravel, with probability breakStrength at the center falling off linearly
// to zero at the edge.
func (w *World) BreakCircle(pos gridmath.GridVec, radius int32, breakStrength float64) {
	left, right, bottom, top := circleBounds(pos, radius)
	radiusSq := int64(radius) * int64(radius)

	w.mu.Lock()
	rng := rand.New(rand.NewSource(w.rng.Int63()))
	w.mu.Unlock()

	stoneOnly := particle.None().With(particle.Stone)
	for y := bottom; y < top; y++ {
		for x := left; x < right; x++ {
			cell := gridmath.GridVec{X: x, Y: y}
			sq := pos.SqDistance(cell)
			if sq >= radiusSq {
				continue
			}
			radialT := 1 - math.Sqrt(float64(sq))/float64(radius)
			localStrength := clamp01(radialT * breakStrength)
			if rng.Float64() >= localStrength {
				continue
			}
			w.ReplaceParticleFiltered(cell, particle.New(particle.Gravel), stoneOnly)
		}
	}
}

// ExtractedParticle is one cell taken by ExtractCircle.
type ExtractedParticle struct {
	Kind     particle.Kind
	Position gridmath.GridVec
}

// ExtractCircle replaces every cell within radius of pos whose kind matches
// mask with Air, returning what was removed and where.
func (w *World) ExtractCircle(pos gridmath.GridVec, radius int32, mask particle.Set) []ExtractedParticle {
	left, right, bottom, top := circleBounds(pos, radius)
	radiusSq := int64(radius) * int64(radius)

	var extracted []ExtractedParticle
	for y := bottom; y < top; y++ {
		for x := left; x < right; x++ {
			cell := gridmath.GridVec{X: x, Y: y}
			if pos.SqDistance(cell) >= radiusSq {
				continue
			}
			kind := w.GetParticle(cell).Kind
			if !mask.Test(kind) {
				continue
			}
			extracted = append(extracted, ExtractedParticle{Kind: kind, Position: cell})
			w.ReplaceParticle(cell, particle.Default())
		}
	}
	return extracted
}

// CastRay walks line cell by cell, skipping repeat visits to the same
// region, and returns the first hit whose kind is in mask.
func (w *World) CastRay(mask particle.Set, line gridmath.GridLine) (HitInfo, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	lastRegion := gridmath.GridVec{}
	haveLast := false

	for it := line.Along(); ; {
		worldpos, ok := it.Next()
		if !ok {
			break
		}
		regpos := GetRegionposForPos(worldpos)
		if haveLast && regpos == lastRegion {
			continue
		}
		haveLast = true
		lastRegion = regpos

		r, ok := w.regionAt(regpos)
		if !ok {
			continue
		}
		if hit, ok := r.CastRay(mask, line); ok {
			return hit, true
		}
	}
	return HitInfo{}, false
}

// QueryTypesInBounds unions the particle-kind sets of every resident region
// overlapping bounds.
func (w *World) QueryTypesInBounds(bounds gridmath.GridBounds) particle.Set {
	w.mu.Lock()
	defer w.mu.Unlock()

	types := particle.None()
	for _, r := range w.regions {
		if matches, ok := r.QueryTypesInBounds(bounds); ok {
			types = types.Union(matches)
		}
	}
	return types
}

// CountMatchesInBounds sums matching-particle counts across every resident
// region overlapping bounds.
func (w *World) CountMatchesInBounds(bounds gridmath.GridBounds, mask particle.Set) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	count := 0
	for _, r := range w.regions {
		if n, ok := r.CountMatchesInBounds(bounds, mask); ok {
			count += n
		}
	}
	return count
}

// GetAddedChunks drains and returns chunk positions added across every
// resident region since last polled.
func (w *World) GetAddedChunks() []gridmath.GridVec {
	w.mu.Lock()
	defer w.mu.Unlock()

	var added []gridmath.GridVec
	for _, r := range w.regions {
		added = append(added, r.AddedChunks()...)
	}
	return added
}

// GetUpdatedChunks returns chunk positions updated last frame, across every
// resident region.
func (w *World) GetUpdatedChunks() []gridmath.GridVec {
	w.mu.Lock()
	defer w.mu.Unlock()

	var updated []gridmath.GridVec
	for _, r := range w.regions {
		updated = append(updated, r.UpdatedChunks()...)
	}
	return updated
}

// ResetUpdatedChunks clears every resident region's updated-chunks outbox.
func (w *World) ResetUpdatedChunks() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, r := range w.regions {
		r.ClearUpdatedChunks()
	}
}

// GetRemovedChunks drains and returns chunk positions removed by eviction
// since last polled.
func (w *World) GetRemovedChunks() []gridmath.GridVec {
	w.mu.Lock()
	defer w.mu.Unlock()

	removed := w.removedChunks
	w.removedChunks = nil
	return removed
}
