package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/planets/config"
	"github.com/lixenwraith/planets/core"
	"github.com/lixenwraith/planets/engine"
	"github.com/lixenwraith/planets/vmath"
)

// resolveSeed returns the configured seed, or one from the clock when zero
func resolveSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return uint64(time.Now().UnixNano())
}

// newSimulation spawns the configured population on a width x height field
func newSimulation(cfg *config.Config, width, height float64, logger *zap.Logger, onDeath func(core.Body)) (*engine.Engine, error) {
	seed := resolveSeed(cfg.Simulation.Seed)
	factory := engine.NewFactory(vmath.NewFastRand(seed))

	engCfg := cfg.Engine()
	bodies, err := factory.CreatePopulation(cfg.Simulation.Population, width, height, engCfg)
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithLogger(logger.Named("engine")),
		engine.WithStatsEvery(cfg.Simulation.LogStatsEvery),
	}
	if onDeath != nil {
		opts = append(opts, engine.WithDeathHandler(onDeath))
	}

	eng, err := engine.New(bodies, engCfg, opts...)
	if err != nil {
		return nil, err
	}
	logger.Info("Population created",
		zap.Uint64("seed", seed),
		zap.Int("bodies", len(bodies)),
		zap.Float64("width", width),
		zap.Float64("height", height))
	return eng, nil
}
