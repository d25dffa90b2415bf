// Package simulation drives a voter model run: it builds the lattice from a
// configuration, performs the requested number of sweeps, and records the
// order parameter after each one.
//
// Every sweep feeds the same set of sinks: the Series held in memory, the
// OrderParameter.dat file, the optional per-sweep trace and the optional
// SQLite run index. When the run ends, naturally or through context
// cancellation, the runner summarises the series and writes Results.txt and
// AutoCorrelation.dat.
//
// Usage:
//
//	files, _ := output.Open(dir)
//	defer files.Close()
//	r, err := simulation.NewRunner(cfg, randsrc.New(cfg.Run.Seed),
//	    simulation.Sinks{Files: files}, logger)
//	if err != nil {
//	    return err
//	}
//	result, err := r.Run(ctx)
package simulation
