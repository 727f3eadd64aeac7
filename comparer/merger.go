package comparer

import (
	"sort"
)

// a span of multiple blocks, from start to end, which match the blocks
// starting at an offset of ComparisonStartOffset
type BlockSpan struct {
	StartBlock uint
	EndBlock   uint

	// byte offset in the comparison for the match
	ComparisonStartOffset int64
}

// EndOffset assumes all blocks in the span are full
func (b BlockSpan) EndOffset(blockSize int64) int64 {
	return b.ComparisonStartOffset + blockSize*int64(b.EndBlock-b.StartBlock+1)
}

type BlockSpanList []BlockSpan

/*
MergeResults combines matches of consecutive reference blocks at consecutive
offsets of the comparison into spans, ordered by comparison offset.

Results with an error are ignored.
*/
func MergeResults(results []BlockMatchResult, blockSize int64) BlockSpanList {
	sorted := make([]BlockMatchResult, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			sorted = append(sorted, r)
		}
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ComparisonOffset != sorted[j].ComparisonOffset {
			return sorted[i].ComparisonOffset < sorted[j].ComparisonOffset
		}
		return sorted[i].BlockIdx < sorted[j].BlockIdx
	})

	var spans BlockSpanList
	// open spans, by the block and offset that would continue them
	continuations := make(map[BlockSpan]int)

	for _, r := range sorted {
		key := BlockSpan{StartBlock: r.BlockIdx, ComparisonStartOffset: r.ComparisonOffset}

		i, ok := continuations[key]
		if ok {
			delete(continuations, key)
			spans[i].EndBlock = r.BlockIdx
		} else {
			i = len(spans)
			spans = append(spans, BlockSpan{
				StartBlock:            r.BlockIdx,
				EndBlock:              r.BlockIdx,
				ComparisonStartOffset: r.ComparisonOffset,
			})
		}

		continuations[BlockSpan{
			StartBlock:            r.BlockIdx + 1,
			ComparisonStartOffset: spans[i].EndOffset(blockSize),
		}] = i
	}

	return spans
}

// Collect reads all results from a stream, stopping at the first error
func Collect(resultStream <-chan BlockMatchResult) (results []BlockMatchResult, err error) {
	for result := range resultStream {
		if result.Err != nil {
			// drain, so the search can finish
			for range resultStream {
			}
			return results, result.Err
		}
		results = append(results, result)
	}

	return results, nil
}
