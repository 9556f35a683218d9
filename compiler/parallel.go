package compiler

import (
	"bytes"
	"context"
	"path"
	"strings"
	"sync"

	"github.com/dhamidi/jfront/java/env"
	"github.com/dhamidi/jfront/java/lookup"
	"github.com/dhamidi/jfront/java/parser"
)

// CompileParallel spreads units over workers. Each worker compiles its
// share against its own environment. The types declared by the other
// workers' units are answered to it as sources, so the outcome does not
// depend on the number of workers. The results are in the order of units.
func (c *Compiler) CompileParallel(ctx context.Context, units []*lookup.SourceUnit, workers int) []*UnitResult {
	if workers > len(units) {
		workers = len(units)
	}
	if workers <= 1 {
		return c.Compile(ctx, units)
	}
	log.Infof("compiling %d units with %d workers", len(units), workers)

	worker := *c
	worker.names = env.Chain{batchSources(units, c.level), c.names}

	results := make([]*UnitResult, len(units))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		var share []*lookup.SourceUnit
		var index []int
		for i := w; i < len(units); i += workers {
			share = append(share, units[i])
			index = append(index, i)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k, r := range worker.Compile(ctx, share) {
				results[index[k]] = r
			}
		}()
	}
	wg.Wait()
	return results
}

// batchSources places every top level type of units on an in-memory
// source path under its package directory.
func batchSources(units []*lookup.SourceUnit, level parser.SourceLevel) *env.Memory {
	mem := env.NewMemory()
	for _, u := range units {
		unit := parser.ParseCompilationUnit(bytes.NewReader(u.Contents), parser.WithFile(u.FileName),
			parser.WithSourceLevel(level)).Finish()
		dir := strings.ReplaceAll(unit.PackageName(), ".", "/")
		for _, td := range unit.Types {
			if td.Name == nil || td.Name.Name == "" {
				continue
			}
			mem.Add(path.Join(dir, td.Name.Name+".java"), u.Contents)
		}
	}
	return mem
}
