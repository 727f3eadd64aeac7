/*
rollsum-test runs a rolling checksum over its input one byte at a time, and
reports how well the digests spread over a set of hash tables.

	rollsum-test --rollsum rk --blocksize 4K --map mix < data.bin
*/
package main

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

const (
	DEFAULT_BLOCK_SIZE  = "1024"
	DEFAULT_BLOCK_COUNT = "1000000"
	DEFAULT_INDEX_BITS  = 20
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "rollsum-test",
})

func newApp() *cli.App {
	return &cli.App{
		Name:      "rollsum-test",
		Usage:     "Test different rollsum variants",
		ArgsUsage: "[<input file>]",
		Description: `Reads the input (stdin if no file is given), checksums the first block and
then rotates the checksum across the rest of the input one byte at a time.
Every window is added to hash tables indexed in different ways, and the
distribution of the mapped input bytes and of each table is printed.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "rollsum",
				Aliases: []string{"R"},
				Value:   "rs",
				Usage:   `Rollsum to use "rs|rk|cp|gr|rg"`,
			},
			&cli.StringFlag{
				Name:    "blocksize",
				Aliases: []string{"B"},
				Value:   DEFAULT_BLOCK_SIZE,
				Usage:   "Block size to use, with an optional K/M/G/T suffix",
			},
			&cli.StringFlag{
				Name:    "blockcount",
				Aliases: []string{"C"},
				Value:   DEFAULT_BLOCK_COUNT,
				Usage:   "Number of blocks to use, with an optional K/M/G/T suffix",
			},
			&cli.StringFlag{
				Name:  "seed",
				Value: "0",
				Usage: "Value to initialize hash to",
			},
			&cli.StringFlag{
				Name:  "offs",
				Value: "31",
				Usage: "Value to add to each input byte",
			},
			&cli.StringFlag{
				Name:  "base",
				Value: "0x10000",
				Usage: "RollSum value to mod s1 and s2 with",
			},
			&cli.StringFlag{
				Name:  "mult",
				Value: "0x08104225",
				Usage: "RabinKarp multiplier to use",
			},
			&cli.StringFlag{
				Name:  "map",
				Value: "ord",
				Usage: `Map type to use "ord|pow|mul|mix|ipfs"`,
			},
			&cli.UintFlag{
				Name:  "indexbits",
				Value: DEFAULT_INDEX_BITS,
				Usage: "Number of bits in the hashtable index",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log progress while scanning",
			},
			&cli.BoolFlag{
				Name:  "profile",
				Usage: "enable HTTP profiling",
			},
			&cli.IntFlag{
				Name:  "profilePort",
				Value: 6060,
				Usage: "The port to serve profiling on",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				logger.SetLevel(log.DebugLevel)
			}

			if c.Bool("profile") {
				port := fmt.Sprint(c.Int("profilePort"))

				go func() {
					logger.Error("profiling server stopped", "err", http.ListenAndServe("localhost:"+port, nil))
				}()
			}

			return nil
		},
		Action: Run,
		Commands: []*cli.Command{
			compareCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}
