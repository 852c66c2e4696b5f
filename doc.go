// Package neuroevo evolves fixed-topology neural networks with a generational
// genetic algorithm.
//
// Each agent carries a two-layer sigmoid network (3-8-1 by default). A
// population lives through one trial of a survival task, fitness is each
// agent's share of the total score, and the next generation is made of the
// best brains carried over unchanged plus mutated crossovers of parents drawn
// by roulette selection.
//
// The library lives in the evolve package and its subpackages:
//
//	evolve          engine, configuration, reproduction, checkpoints
//	evolve/matrix   dense matrices and the per-cell genetic operators
//	evolve/nn       the feedforward network and its genome record
//	evolve/archive  stores for the best brains of a run
//
// Basic usage:
//
//	config, err := evolve.LoadConfig("configs/flappy.ini")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	engine, err := evolve.NewEngine(config)
//	if err != nil {
//		log.Fatalf("Error creating engine: %v", err)
//	}
//
//	// env implements evolve.Environment
//	for engine.Generation() < 100 {
//		if _, err := engine.Tick(env); err != nil {
//			log.Fatalf("Tick failed: %v", err)
//		}
//	}
//
//	brain, score, ok := engine.BestEver()
//
// examples/flappy runs the whole loop on a headless flappy-bird course.
package neuroevo
