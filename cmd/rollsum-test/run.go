package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Redundancy/go-rollsums/rollsum"
	"github.com/Redundancy/go-rollsums/scan"
	"github.com/Redundancy/go-rollsums/stats"
)

const usage = "rollsum-test [options] [<input file>]"

// Run scans the input and prints the report
func Run(c *cli.Context) error {
	if c.Args().Len() > 1 {
		return fmt.Errorf(
			"Usage is \"%v\" (invalid number of arguments)",
			usage,
		)
	}

	opts, err := parseOptions(c)
	if err != nil {
		return err
	}

	sum, err := rollsum.New(opts.config)
	if err != nil {
		return err
	}

	tables, err := stats.DefaultTables(opts.indexBits)
	if err != nil {
		return err
	}

	var input io.Reader = os.Stdin
	if c.Args().Len() == 1 {
		f, err := os.Open(c.Args().First())
		if err != nil {
			return formatFileError(c.Args().First(), err)
		}
		defer f.Close()
		input = f
	}

	collectors := make([]scan.Collector, len(tables))
	for i, t := range tables {
		collectors[i] = t.Table
	}

	logger.Debug("starting scan", "checksum", sum, "blocksize", opts.blockSize, "blockcount", opts.blockCount)

	result, err := scan.Run(sum, input, scan.Options{
		BlockSize:  opts.blockSize,
		BlockCount: opts.blockCount,
		Collectors: collectors,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	return writeReport(c.App.Writer, opts, sum, result, tables)
}

func formatFileError(filename string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("Could not find %v: %w", filename, err)
	case os.IsPermission(err):
		return fmt.Errorf("Could not open %v (permission denied): %w", filename, err)
	default:
		return fmt.Errorf("Unknown error opening %v: %w", filename, err)
	}
}

func writeReport(
	w io.Writer,
	opts *options,
	sum rollsum.Checksum,
	result *scan.Result,
	tables []stats.NamedTable,
) error {
	_, err := fmt.Fprintf(
		w,
		"Results for blocksize=%v blockcount=%v %v indexbits=%v\n\nmap_data: %v\n",
		opts.blockSize, opts.blockCount, sum, opts.indexBits, &result.Data,
	)
	if err != nil {
		return err
	}

	for _, t := range tables {
		if _, err := fmt.Fprintf(w, "%v: %v\n", t.Name, t.Table); err != nil {
			return err
		}
	}

	return nil
}
