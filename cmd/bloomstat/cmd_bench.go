package main

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/bloomkit/bloomkit"
)

// benchFlags holds the flags for the "bench" subcommand. The core engine
// (§1) is hard-wired to XXH3 per §4.2 and §9 ("changing algorithms is a
// format-breaking change"); this harness never changes the core's hash,
// it merely drives a second, throwaway filter keyed by
// github.com/cespare/xxhash/v2 side by side, to compare raw hashing
// throughput. Nothing it measures feeds back into the persistence
// contract.
type benchFlags struct {
	capacity int
	fpRate   float64
}

func newBenchCommand() *cobra.Command {
	flags := &benchFlags{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare XXH3 and XXH64 insert/lookup throughput",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBench(flags)
		},
	}

	cmd.Flags().IntVar(&flags.capacity, "capacity", 1_000_000, "number of elements to insert")
	cmd.Flags().Float64Var(&flags.fpRate, "fp-rate", 0.01, "target false positive rate")

	return cmd
}

func runBench(flags *benchFlags) error {
	keys := randomKeys(flags.capacity, 0x5eed)

	builder, err := bloomkit.NewBuilder(uint64(flags.capacity), flags.fpRate)
	if err != nil {
		return fmt.Errorf("deriving parameters: %w", err)
	}

	xxh3Filter := builder.BuildBitFilter()
	addDur := timeIt(func() {
		for _, k := range keys {
			xxh3Filter.AddBytes(k)
		}
	})
	hasDur := timeIt(func() {
		for _, k := range keys {
			xxh3Filter.ContainsBytes(k)
		}
	})

	xxh64Filter := newXXH64Filter(builder.M(), builder.K())
	xxh64AddDur := timeIt(func() {
		for _, k := range keys {
			xxh64Filter.add(k)
		}
	})
	xxh64HasDur := timeIt(func() {
		for _, k := range keys {
			xxh64Filter.has(k)
		}
	})

	tbl := table.NewWriter()
	tbl.SetOutputMirror(os.Stdout)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"hash", "op", "n", "duration", "ns/op"})
	tbl.AppendRow(row("xxh3", "add", flags.capacity, addDur))
	tbl.AppendRow(row("xxh3", "has", flags.capacity, hasDur))
	tbl.AppendRow(row("xxh64", "add", flags.capacity, xxh64AddDur))
	tbl.AppendRow(row("xxh64", "has", flags.capacity, xxh64HasDur))
	tbl.Render()

	return nil
}

func row(hash, op string, n int, d time.Duration) table.Row {
	return table.Row{hash, op, n, d, d.Nanoseconds() / int64(n)}
}

func timeIt(f func()) time.Duration {
	start := time.Now()
	f()
	return time.Since(start)
}

func randomKeys(n int, seed int64) [][]byte {
	r := rand.New(rand.NewSource(seed))
	keys := make([][]byte, n)
	for i := range keys {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], r.Uint64())
		keys[i] = b[:]
	}
	return keys
}

// xxh64Filter is a throwaway bit filter keyed by cespare/xxhash/v2
// instead of bloomkit's XXH3 kernel, used only to produce a
// throughput comparison. It derives its second hash by re-hashing the
// element with an 8-byte seed suffix, since cespare/xxhash/v2 does not
// expose a seeded Sum64 variant the way zeebo/xxh3 does.
type xxh64Filter struct {
	bits []uint64
	m    uint64
	k    int
}

func newXXH64Filter(m uint64, k int) *xxh64Filter {
	return &xxh64Filter{bits: make([]uint64, (m+63)/64), m: m, k: k}
}

var xxh64Seed2 = []byte{0x9e, 0x37, 0x79, 0xb9, 0x7f, 0x4a, 0x7c, 0x15}

func (f *xxh64Filter) hashes(data []byte) (h1, h2 uint64) {
	h1 = xxhash.Sum64(data)
	h2 = xxhash.Sum64(append(append([]byte{}, data...), xxh64Seed2...))
	return h1, h2
}

func (f *xxh64Filter) add(data []byte) {
	h1, h2 := f.hashes(data)
	for i := 0; i < f.k; i++ {
		idx := (h1 + uint64(i)*h2) % f.m
		f.bits[idx/64] |= 1 << (idx % 64)
	}
}

func (f *xxh64Filter) has(data []byte) bool {
	h1, h2 := f.hashes(data)
	for i := 0; i < f.k; i++ {
		idx := (h1 + uint64(i)*h2) % f.m
		if f.bits[idx/64]&(1<<(idx%64)) == 0 {
			return false
		}
	}
	return true
}
