package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bloomkit/bloomkit"
)

// inspectFlags holds the flags for the "inspect" subcommand. It is the
// direct descendant of the teacher's examples/bloomstat/main.go, which
// estimated Bloom filter sizes from the command line; here it is wired
// into a cobra subcommand and can also load a named preset from a YAML
// profile via viper instead of requiring raw flags every time.
type inspectFlags struct {
	capacity uint64
	fpRate   float64
	profile  string
	profFile string
}

func newInspectCommand() *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Report the (m, k) a filter would use for a given (n, p)",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInspect(flags)
		},
	}

	cmd.Flags().Uint64Var(&flags.capacity, "capacity", 0, "expected number of elements (n)")
	cmd.Flags().Float64Var(&flags.fpRate, "fp-rate", 0, "target false positive rate (p)")
	cmd.Flags().StringVar(&flags.profile, "profile", "", "named preset to load from --profile-file")
	cmd.Flags().StringVar(&flags.profFile, "profile-file", "", "YAML file of named (capacity, fp_rate) presets")

	return cmd
}

func runInspect(flags *inspectFlags) error {
	n, p := flags.capacity, flags.fpRate

	if flags.profile != "" {
		loaded, loadedP, err := loadProfile(flags.profFile, flags.profile)
		if err != nil {
			return err
		}
		n, p = loaded, loadedP
	}

	m, k, err := bloomkit.Optimize(n, p)
	if err != nil {
		color.Red("invalid parameters: %v", err)
		return err
	}

	size, unit := memsize(float64(m))
	bitsPerKey := float64(m) / float64(n)

	color.Green("%d bits (%.2f %s), %d hashes", m, size, unit, k)
	fmt.Printf("%.2f bits/%.2f B per key\n", bitsPerKey, bitsPerKey/8)

	return nil
}

// loadProfile reads a named (capacity, fp_rate) preset from a YAML file
// of the shape:
//
//	profiles:
//	  cache-admission:
//	    capacity: 1000000
//	    fp_rate: 0.01
func loadProfile(path, name string) (capacity uint64, fpRate float64, err error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return 0, 0, fmt.Errorf("reading profile file: %w", err)
	}

	key := "profiles." + name
	if !v.IsSet(key) {
		return 0, 0, fmt.Errorf("profile %q not found in %s", name, path)
	}

	return v.GetUint64(key + ".capacity"), v.GetFloat64(key + ".fp_rate"), nil
}

const (
	kiB = 1 << 10
	miB = 1 << 20
	giB = 1 << 30
)

func memsize(bits float64) (size float64, unit string) {
	size = bits / 8

	switch {
	case size >= giB:
		size /= giB
		unit = "GiB"
	case size >= miB:
		size /= miB
		unit = "MiB"
	case size >= kiB:
		size /= kiB
		unit = "kiB"
	default:
		unit = "B"
	}
	return size, unit
}
