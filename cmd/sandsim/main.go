// Command sandsim is a headless driver for the falling-sand world: it loads
// config, steps World.Update on a fixed tick, applies a small scripted brush
// routine so the visible area isn't just static terrain, and optionally
// records per-frame scheduler accounting to a CSV file. There is no
// rendering or input surface here; a real front end would sit where the
// scripted brush calls do.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"github.com/jakemcleman/sandsim/internal/config"
	"github.com/jakemcleman/sandsim/internal/gridmath"
	"github.com/jakemcleman/sandsim/internal/logx"
	"github.com/jakemcleman/sandsim/internal/particle"
	"github.com/jakemcleman/sandsim/internal/profiling"
	"github.com/jakemcleman/sandsim/internal/stats"
	"github.com/jakemcleman/sandsim/internal/world"
)

// slowTickThreshold mirrors a dropped-frame budget: a tick that blows past it
// gets its top profiling spans logged instead of silently passing.
const slowTickThreshold = 50 * time.Millisecond

var (
	configPath  = flag.String("config", "", "path to a YAML config overlay (embedded defaults.yaml used if empty)")
	statsPath   = flag.String("stats", "", "path to write per-tick CSV accounting (disabled if empty)")
	seed        = flag.Int64("seed", 1, "world generation seed")
	perlin      = flag.Bool("perlin", true, "use rolling Perlin terrain instead of flat ground")
	tps         = flag.Int("tps", 30, "simulation ticks per second")
	maxTicks    = flag.Int("max-ticks", 0, "stop after this many ticks (0 runs until interrupted)")
	visibleSize = flag.Int("visible-chunks", 8, "half-width/height, in chunks, of the region kept resident around the origin")
	budget      = flag.Uint64("budget", 0, "chunk-update budget per tick (0 reads target_chunk_updates from config)")
	debug       = flag.Bool("debug", false, "enable debug-level logging")
	rainEvery   = flag.Int("rain-every", 15, "drop a sand circle into the world every N ticks (0 disables)")
)

func main() {
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("sandsim: loading config: %v", err)
	}

	logger := logx.NewDefaultLogger("sandsim", *debug)

	var generator world.WorldGenerator
	if *perlin {
		generator = world.NewPerlinGenerator(*seed, 0)
	} else {
		generator = world.FlatGenerator{GroundHeight: 0}
	}

	w := world.New(generator, *seed, logger)
	defer w.Close()

	recorder, err := stats.NewRecorder(*statsPath)
	if err != nil {
		log.Fatalf("sandsim: opening stats output: %v", err)
	}
	defer recorder.Close()

	targetChunkUpdates := *budget
	if targetChunkUpdates == 0 {
		targetChunkUpdates = config.GetScheduler().TargetChunkUpdates
	}

	visibleHalfExtent := gridmath.NewGridVec(*visibleSize*world.ChunkSize, *visibleSize*world.ChunkSize)
	visible := gridmath.NewGridBoundsCentered(gridmath.GridVec{}, visibleHalfExtent)

	rainBrush := world.Brush{Kind: world.BrushPlace, PlaceKind: particle.Sand, Radius: 4}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	done := ctx.Done()
	ticker := channerics.NewTicker(done, time.Second/time.Duration(*tps))

	logger.Infof("starting: seed=%d perlin=%v tps=%d budget=%d", *seed, *perlin, *tps, targetChunkUpdates)

	var tick int64
	for range ticker {
		profiling.ResetFrame()
		tickStart := time.Now()

		if *rainEvery > 0 && tick%int64(*rainEvery) == 0 {
			dropX := int32((tick / int64(*rainEvery)) % int64(*visibleSize*world.ChunkSize))
			rainBrush.Apply(w, gridmath.NewGridVec(int(dropX), int(visibleHalfExtent.Y-1)))
		}

		result := w.Update(visible, targetChunkUpdates, world.WorldUpdateOptions{})

		elapsed := time.Since(tickStart)
		if elapsed > slowTickThreshold {
			logger.Warnf("slow tick %d: %v. top tasks: %s", tick, elapsed, profiling.TopNCurrentFrame(5))
		}

		if err := recorder.Write(toFrameRecord(tick, elapsed, result)); err != nil {
			logger.Warnf("stats write failed: %v", err)
		}

		tick++
		if *maxTicks > 0 && tick >= int64(*maxTicks) {
			stop()
			break
		}
	}

	logger.Infof("stopped after %d ticks", tick)
	fmt.Println("done")
}

func toFrameRecord(tick int64, elapsed time.Duration, s world.WorldUpdateStats) stats.FrameRecord {
	return stats.FrameRecord{
		Frame:              tick,
		FrameMicros:        elapsed.Microseconds(),
		ChunkUpdates:       s.ChunkUpdates,
		RegionUpdates:      s.RegionUpdates,
		LoadedRegions:      s.LoadedRegions,
		LoadingRegions:     s.LoadingRegions,
		CompressedRegions:  s.CompressedRegions,
		CompressingRegions: s.CompressingRegions,
	}
}
