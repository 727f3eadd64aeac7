package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Redundancy/go-rollsums/rollsum"
	"github.com/Redundancy/go-rollsums/util/readers"
)

func TestParseSize(t *testing.T) {
	cases := map[string]int{
		"0":     0,
		"16":    16,
		"16B":   16,
		"4K":    4096,
		"1M":    1 << 20,
		"2G":    2 << 30,
		"1000K": 1024000,
	}

	for s, expected := range cases {
		n, err := parseSize(s)

		if err != nil {
			t.Errorf("%q: %v", s, err)
		} else if n != expected {
			t.Errorf("%q parsed to %v, expected %v", s, n, expected)
		}
	}

	for _, s := range []string{"", "K", "4Q", "-1", "1.5K"} {
		if _, err := parseSize(s); err == nil {
			t.Errorf("%q should not parse", s)
		}
	}
}

func TestParseUint32(t *testing.T) {
	cases := map[string]uint32{
		"31":         31,
		"0x10000":    0x10000,
		"0x08104225": 0x08104225,
		"0o17":       15,
		"65521":      65521,
	}

	for s, expected := range cases {
		if v, err := parseUint32("test", s); err != nil || v != expected {
			t.Errorf("%q parsed to %v (%v)", s, v, err)
		}
	}

	if _, err := parseUint32("test", "0x100000000"); err == nil {
		t.Error("Values over 32 bits should not parse")
	}
}

func runApp(t *testing.T, args ...string) (string, error) {
	app := newApp()
	out := &bytes.Buffer{}
	app.Writer = out

	err := app.Run(append([]string{"rollsum-test"}, args...))
	return out.String(), err
}

func writeInput(t *testing.T, size int) string {
	path := filepath.Join(t.TempDir(), "input.dat")

	if err := os.WriteFile(path, readers.MustRead(readers.NewRandom(1), size), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestReport(t *testing.T) {
	input := writeInput(t, 5000)

	out, err := runApp(t, "-R", "rk", "-B", "1K", "--indexbits", "12", input)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")

	expectedFirst := "Results for blocksize=1024 blockcount=1000000 RabinKarp(seed=0, offs=31, map=ord, mult=0x8104225) indexbits=12"
	if lines[0] != expectedFirst {
		t.Errorf("Unexpected first line %q", lines[0])
	}

	if !strings.HasPrefix(lines[2], "map_data: num=5000 ") {
		t.Errorf("Unexpected data line %q", lines[2])
	}

	titles := []string{"rollsum", "s1sum", "s2sum", "and_mask", "mod_mask", "mix_mask", "and_clust", "mod_clust", "mix_clust"}
	if len(lines) != 3+len(titles) {
		t.Fatalf("Unexpected report:\n%v", out)
	}

	for i, title := range titles {
		line := lines[3+i]
		if !strings.HasPrefix(line, title+": size=") {
			t.Errorf("Unexpected table line %q", line)
		}
	}

	if !strings.Contains(lines[3], "count=3977 ") {
		t.Errorf("Expected 3977 windows in %q", lines[3])
	}
}

func TestThatBadOptionsFail(t *testing.T) {
	input := writeInput(t, 100)

	if _, err := runApp(t, "-R", "xx", input); !errors.Is(err, rollsum.ErrUnknownAlgorithm) {
		t.Errorf("Expected ErrUnknownAlgorithm, got %v", err)
	}

	if _, err := runApp(t, "-R", "rk", "--mult", "2", input); !errors.Is(err, rollsum.ErrEvenMultiplier) {
		t.Errorf("Expected ErrEvenMultiplier, got %v", err)
	}

	if _, err := runApp(t, "--base", "0x20000", input); !errors.Is(err, rollsum.ErrInvalidBase) {
		t.Errorf("Expected ErrInvalidBase, got %v", err)
	}

	if _, err := runApp(t, filepath.Join(t.TempDir(), "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected a missing file error, got %v", err)
	}

	if _, err := runApp(t, input, input); err == nil {
		t.Error("Expected an error for too many arguments")
	}
}

func TestCompare(t *testing.T) {
	dir := t.TempDir()
	reference := filepath.Join(dir, "reference.dat")
	modified := filepath.Join(dir, "modified.dat")

	data := readers.MustRead(readers.NewRandom(2), 4096)
	if err := os.WriteFile(reference, data, 0o644); err != nil {
		t.Fatal(err)
	}

	changed := append(append([]byte("prefix"), data[:2048]...), data[2100:]...)
	if err := os.WriteFile(modified, changed, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runApp(t, "-R", "cp", "-B", "512", "compare", reference, modified)
	if err != nil {
		t.Fatal(err)
	}

	// blocks 0-3 survive in front, 5-7 after the cut, 4 is damaged
	expected := "blocks 0-3 at offset 6\n" +
		"blocks 5-7 at offset 2514\n" +
		"matched 7 results of 8 blocks: "

	if !strings.HasPrefix(out, expected) {
		t.Errorf("Unexpected output:\n%v", out)
	}
}
