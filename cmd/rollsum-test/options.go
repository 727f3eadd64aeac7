package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Redundancy/go-rollsums/bytemap"
	"github.com/Redundancy/go-rollsums/rollsum"
)

const sizeScales = "BKMGT"

type options struct {
	config     rollsum.Config
	blockSize  int
	blockCount int
	indexBits  uint
}

// parseSize reads a count with an optional B/K/M/G/T suffix, in powers of 1024
func parseSize(s string) (int, error) {
	scale := 1
	if s != "" {
		if i := strings.IndexByte(sizeScales, s[len(s)-1]); i >= 0 {
			s = s[:len(s)-1]
			scale = 1 << (10 * i)
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}

	if n < 0 || n > int(^uint(0)>>1)/scale {
		return 0, fmt.Errorf("size %v out of range", s)
	}

	return n * scale, nil
}

// parseUint32 accepts any Go integer literal: decimal, 0x, 0o or 0b
func parseUint32(name, s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid --%v %q: %w", name, s, err)
	}
	return uint32(v), nil
}

func parseOptions(c *cli.Context) (*options, error) {
	alg, err := rollsum.ParseAlgorithm(c.String("rollsum"))
	if err != nil {
		return nil, err
	}

	m, err := bytemap.Parse(c.String("map"))
	if err != nil {
		return nil, err
	}

	config := rollsum.Config{
		Algorithm: alg,
		Map:       m,
	}

	numbers := []struct {
		name  string
		value *uint32
	}{
		{"seed", &config.Seed},
		{"offs", &config.Offset},
		{"base", &config.Base},
		{"mult", &config.Multiplier},
	}

	for _, n := range numbers {
		if *n.value, err = parseUint32(n.name, c.String(n.name)); err != nil {
			return nil, err
		}
	}

	// 0 would select the defaults
	if alg == rollsum.AlgRollSum && config.Base == 0 {
		return nil, fmt.Errorf("%w: 0", rollsum.ErrInvalidBase)
	}

	if alg == rollsum.AlgRabinKarp && config.Multiplier == 0 {
		return nil, fmt.Errorf("%w: 0", rollsum.ErrEvenMultiplier)
	}

	opts := &options{
		config:    config,
		indexBits: c.Uint("indexbits"),
	}

	if opts.blockSize, err = parseSize(c.String("blocksize")); err != nil {
		return nil, err
	}

	if opts.blockCount, err = parseSize(c.String("blockcount")); err != nil {
		return nil, err
	}

	return opts, nil
}
