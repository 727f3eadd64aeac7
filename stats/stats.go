/*
Package stats collects the numbers used to judge a rolling checksum: simple
distribution statistics, and how well digests spread over hash tables of
various sizes and indexing schemes.

A HashTable only remembers which distinct window contents landed in each
bucket, so that windows with identical contents are not counted as collisions.
*/
package stats

import (
	"fmt"
	"math"
)

// Stats are simple distribution statistics. The zero value is empty.
type Stats struct {
	Num uint64
	Sum uint64
	// squares can exceed 64 bits for 32bit values
	Sum2 float64
	// Min and Max are only meaningful if Num > 0
	Min uint64
	Max uint64
}

// Add records the value v num times
func (s *Stats) Add(v uint64, num uint64) {
	if num == 0 {
		return
	}

	if s.Num == 0 || v < s.Min {
		s.Min = v
	}

	if s.Num == 0 || v > s.Max {
		s.Max = v
	}

	s.Num += num
	s.Sum += v * num
	s.Sum2 += float64(v) * float64(v) * float64(num)
}

// Update records each value once
func (s *Stats) Update(values ...uint64) {
	for _, v := range values {
		s.Add(v, 1)
	}
}

// Avg is NaN for empty stats
func (s *Stats) Avg() float64 {
	if s.Num == 0 {
		return math.NaN()
	}
	return float64(s.Sum) / float64(s.Num)
}

// Var is the population variance
func (s *Stats) Var() float64 {
	avg := s.Avg()
	return s.Sum2/float64(s.Num) - avg*avg
}

func (s *Stats) Dev() float64 {
	return math.Sqrt(s.Var())
}

func (s *Stats) String() string {
	return fmt.Sprintf(
		"num=%v sum=%v min/avg/max/dev=%v/%v/%v/%v",
		s.Num, s.Sum, s.minString(), s.Avg(), s.maxString(), s.Dev(),
	)
}

func (s *Stats) minString() string {
	if s.Num == 0 {
		return "inf"
	}
	return fmt.Sprint(s.Min)
}

func (s *Stats) maxString() string {
	if s.Num == 0 {
		return "-inf"
	}
	return fmt.Sprint(s.Max)
}

// TableStats describes the bucket sizes of a hash table, empty buckets included
type TableStats struct {
	Stats
	// Size is the number of buckets, Count the number of distinct entries
	Size     uint64
	Count    uint64
	NumEmpty uint64
	NumColls uint64
}

// addEmpty completes the stats of the used buckets with the empty ones of a
// table of size buckets
func (t *TableStats) addEmpty(size uint64) {
	t.NumEmpty = size - t.Num
	t.NumColls = t.Sum - t.Num
	t.Add(0, t.NumEmpty)
	t.Size = t.Num
	t.Count = t.Sum
}

// Perf is avg/var of the bucket sizes. It is about 1 for a random spread, and
// higher when entries spread more evenly than random.
func (t *TableStats) Perf() float64 {
	return t.Avg() / t.Var()
}

// Colls is the fraction of entries that share a bucket with an earlier entry
func (t *TableStats) Colls() float64 {
	return float64(t.NumColls) / float64(t.Count)
}

// Empty is the fraction of buckets with no entries
func (t *TableStats) Empty() float64 {
	return float64(t.NumEmpty) / float64(t.Size)
}

func (t *TableStats) String() string {
	return fmt.Sprintf(
		"size=%v count=%v min/avg/max/dev=%v/%v/%v/%v empty=%.6f colls=%.6f perf=%.4f",
		t.Size, t.Count, t.minString(), t.Avg(), t.maxString(), t.Dev(),
		t.Empty(), t.Colls(), t.Perf(),
	)
}
