package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Redundancy/go-rollsums/comparer"
	"github.com/Redundancy/go-rollsums/index"
)

const compareUsage = "rollsum-test [options] compare <reference> <file>"

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Aliases:   []string{"c"},
		Usage:     "Find the blocks of a reference file in another file",
		ArgsUsage: "<reference> <file>",
		Description: `Splits the reference into blocks of --blocksize bytes and indexes them by the
configured rollsum, then rolls through <file> looking for those blocks.
Matching runs of blocks are printed with their offset in <file>.`,
		Action: Compare,
	}
}

// Compare prints the reference blocks found in a file
func Compare(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf(
			"Usage is \"%v\" (invalid number of arguments)",
			compareUsage,
		)
	}

	opts, err := parseOptions(c)
	if err != nil {
		return err
	}

	referenceFile, err := os.Open(c.Args().Get(0))
	if err != nil {
		return formatFileError(c.Args().Get(0), err)
	}
	defer referenceFile.Close()

	reference, err := index.Build(opts.config, opts.blockSize, referenceFile)
	if err != nil {
		return err
	}

	logger.Debug(
		"indexed reference",
		"blocks", reference.BlockCount,
		"weak", reference.WeakCount(),
		"checksum", opts.config.Algorithm,
	)

	comparisonFile, err := os.Open(c.Args().Get(1))
	if err != nil {
		return formatFileError(c.Args().Get(1), err)
	}
	defer comparisonFile.Close()

	counts := &comparer.Comparer{}
	results, err := comparer.Collect(counts.StartFindMatchingBlocks(comparisonFile, 0, reference))
	if err != nil {
		return err
	}

	spans := comparer.MergeResults(results, int64(opts.blockSize))
	w := c.App.Writer

	for _, span := range spans {
		fmt.Fprintf(
			w,
			"blocks %v-%v at offset %v\n",
			span.StartBlock,
			span.EndBlock,
			span.ComparisonStartOffset,
		)
	}

	_, err = fmt.Fprintf(
		w,
		"matched %v results of %v blocks: comparisons=%v weak_hits=%v strong_hits=%v\n",
		len(results),
		reference.BlockCount,
		counts.Comparisons,
		counts.WeakHashHits,
		counts.StrongHashHits,
	)

	return err
}
