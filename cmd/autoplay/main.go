// Package main provides the autoplay CLI: it drives an MCTS-searched
// playthrough to a target ante/score/money (or a step budget) and writes
// a trace report.
package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/signalnine/balatromcts/gosim/internal/autoplay"
	"github.com/signalnine/balatromcts/gosim/internal/content"
	"github.com/signalnine/balatromcts/gosim/internal/mcts"
	"github.com/signalnine/balatromcts/gosim/internal/orchestrator"
	"github.com/signalnine/balatromcts/gosim/internal/run"
	"github.com/signalnine/balatromcts/gosim/internal/trace"
)

// CLI is the autoplay runner's flag surface: seed, step/search budget
// overrides, stop targets, and the trace report's format and path.
type CLI struct {
	Seed        uint64 `default:"0xC0FFEE" help:"RNG seed for the run and its search"`
	MaxSteps    uint32 `default:"500" help:"Maximum autoplay steps before giving up"`
	TargetAnte  uint8  `default:"4" help:"Stop once this ante is reached (0 disables)"`
	TargetScore int64  `help:"Stop once this blind score is reached (0 disables)"`
	TargetMoney int64  `help:"Stop once this much money is held (0 disables)"`
	StopOnFail  bool   `default:"true" help:"Stop as soon as a blind is failed"`
	Runs        int    `default:"1" help:"Independent runs over seeds seed..seed+runs-1; the best trace is written"`
	Workers     int    `default:"1" help:"Concurrent workers for a multi-run sweep"`
	Out         string `default:"trace.json" help:"Trace report output path"`
	JSON        bool   `default:"true" help:"Write the trace report as JSON instead of text"`
	Verbose     bool   `short:"v" help:"Enable debug-level step logging"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	logLevel := log.InfoLevel
	if cli.Verbose {
		logLevel = log.DebugLevel
	}
	log.SetLevel(logLevel)

	req := orchestrator.DefaultRequest()
	req.Config.Seed = cli.Seed
	req.Config.MaxSteps = cli.MaxSteps
	req.Targets.StopOnBlindFailed = cli.StopOnFail
	if cli.TargetAnte > 0 {
		ante := cli.TargetAnte
		req.Targets.TargetAnte = &ante
	}
	if cli.TargetScore > 0 {
		score := cli.TargetScore
		req.Targets.TargetScore = &score
	}
	if cli.TargetMoney > 0 {
		money := cli.TargetMoney
		req.Targets.TargetMoney = &money
	}

	factoryFor := func(seed uint64) mcts.Factory {
		return func() (*autoplay.Simulator, error) {
			r := run.New(content.DefaultGameConfig(), *content.DefaultContent(), seed)
			if err := r.StartBlind(1, run.Small); err != nil {
				return nil, err
			}
			return autoplay.NewSimulator(r), nil
		}
	}

	if cli.Runs < 1 {
		cli.Runs = 1
	}
	log.Info("starting autoplay", "seed", cli.Seed, "runs", cli.Runs, "max_steps", cli.MaxSteps)

	result, err := runSweep(cli, req, factoryFor)
	if err != nil {
		log.Error("autoplay run failed", "error", err)
		ctx.Exit(1)
	}

	log.Info("autoplay finished", "status", result.Status.String(),
		"steps", result.Summary.Steps, "ante", result.FinalMetrics.Ante,
		"money", result.FinalMetrics.Money, "wall_ms", result.Summary.WallTimeMs)

	if cli.JSON {
		err = trace.WriteJSON(cli.Out, result)
	} else {
		err = trace.WriteText(cli.Out, result)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write trace report: %v\n", err)
		ctx.Exit(1)
	}

	fmt.Printf("trace written to %s\n", cli.Out)
	ctx.Exit(0)
}

// runSweep drives cli.Runs independent runs over consecutive seeds,
// cli.Workers at a time, and returns the best trace. Each worker owns
// its run state and search tree outright, so no locking is needed beyond
// collecting results.
func runSweep(cli CLI, req orchestrator.Request, factoryFor func(uint64) mcts.Factory) (trace.AutoplayResult, error) {
	if cli.Runs == 1 {
		return orchestrator.Run(factoryFor(cli.Seed), req)
	}

	type sweepResult struct {
		seed   uint64
		result trace.AutoplayResult
		err    error
	}

	workers := cli.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > cli.Runs {
		workers = cli.Runs
	}

	seeds := make(chan uint64)
	results := make(chan sweepResult, cli.Runs)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range seeds {
				workerReq := req
				workerReq.Config.Seed = seed
				result, err := orchestrator.Run(factoryFor(seed), workerReq)
				results <- sweepResult{seed: seed, result: result, err: err}
			}
		}()
	}
	for i := 0; i < cli.Runs; i++ {
		seeds <- cli.Seed + uint64(i)
	}
	close(seeds)
	wg.Wait()
	close(results)

	var best *sweepResult
	for r := range results {
		r := r
		if r.err != nil {
			return trace.AutoplayResult{}, r.err
		}
		log.Info("run finished", "seed", r.seed, "status", r.result.Status.String(),
			"ante", r.result.FinalMetrics.Ante, "money", r.result.FinalMetrics.Money)
		if best == nil || betterResult(r.result, best.result) {
			best = &r
		}
	}
	log.Info("sweep finished", "best_seed", best.seed)
	return best.result, nil
}

// betterResult ranks sweep outcomes: furthest ante, then highest blind
// score, then most money.
func betterResult(a, b trace.AutoplayResult) bool {
	if a.FinalMetrics.Ante != b.FinalMetrics.Ante {
		return a.FinalMetrics.Ante > b.FinalMetrics.Ante
	}
	if a.FinalMetrics.BlindScore != b.FinalMetrics.BlindScore {
		return a.FinalMetrics.BlindScore > b.FinalMetrics.BlindScore
	}
	return a.FinalMetrics.Money > b.FinalMetrics.Money
}
