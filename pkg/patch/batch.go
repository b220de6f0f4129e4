package patch

import (
	"context"
	"sort"
	"sync"

	"github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/logging"
	"github.com/vibecheck/autofix/pkg/paths"
	"github.com/vibecheck/autofix/pkg/types"
	"golang.org/x/sync/errgroup"
)

// BatchResult holds the outcome of a multi-file generation. Patches keeps
// input order with failed items left out; Failures maps input index to error.
type BatchResult struct {
	Patches  []*types.Patch
	Failures map[int]error
}

// FailedIndexes returns the failed input indexes in ascending order
func (r *BatchResult) FailedIndexes() []int {
	indexes := make([]int, 0, len(r.Failures))
	for i := range r.Failures {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	return indexes
}

// GenerateMultiFilePatch generates one patch per change. Individual failures
// are dropped from the result; only a batch where every item failed is an
// error.
func (g *Generator) GenerateMultiFilePatch(changes []types.FileChange) ([]*types.Patch, error) {
	result, err := g.GenerateBatch(context.Background(), changes)
	if err != nil {
		return nil, err
	}
	return result.Patches, nil
}

// GenerateBatch validates every change up front, then generates patches
// concurrently with at most Options.Workers in flight.
func (g *Generator) GenerateBatch(ctx context.Context, changes []types.FileChange) (*BatchResult, error) {
	result := &BatchResult{
		Patches:  []*types.Patch{},
		Failures: make(map[int]error),
	}
	if len(changes) == 0 {
		return result, nil
	}

	for i, change := range changes {
		if err := paths.ValidatePath(change.FilePath); err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "change %d has an invalid path", i).
				In(errors.DomainGeneration).
				WithDetail(errors.DetailIndex, i)
		}
	}

	done := logging.LogOperationStart(g.logger, "generate_batch")
	defer done()

	slots := make([]*types.Patch, len(changes))
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Workers)

	for i, change := range changes {
		i, change := i, change
		eg.Go(func() error {
			var p *types.Patch
			err := egCtx.Err()
			if err == nil {
				p, err = g.GeneratePatch(change.FilePath, change.OriginalContent, change.NewContent,
					change.IssueID, change.ModuleID)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures[i] = err
				return nil
			}
			slots[i] = p
			return nil
		})
	}
	_ = eg.Wait()

	for _, p := range slots {
		if p != nil {
			result.Patches = append(result.Patches, p)
		}
	}

	if len(result.Failures) == 0 {
		return result, nil
	}

	messages := make(map[int]string, len(result.Failures))
	for i, err := range result.Failures {
		messages[i] = err.Error()
	}

	if len(result.Patches) == 0 {
		return nil, errors.Newf(errors.ErrGenerationFailed, "all %d changes failed", len(changes)).
			WithDetail(errors.DetailErrors, messages)
	}

	g.logger.Warn().
		Int("failed", len(result.Failures)).
		Int("succeeded", len(result.Patches)).
		Interface("errors", messages).
		Msg("Some changes could not be turned into patches")

	return result, nil
}
