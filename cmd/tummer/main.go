// Command tummer finds Maximal Unique Matches (MUMs) between a
// reference sequence and one or more query sequences using an
// enhanced suffix array.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"github.com/pkg/profile"

	"github.com/kloetzl/tummer/internal/fasta"
	"github.com/kloetzl/tummer/internal/scan"
	"github.com/kloetzl/tummer/internal/seq"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "tummer:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("tummer", flag.ContinueOnError)

	forward := fs.Bool("forward", true, "scan queries 5' to 3'")
	revcomp := fs.Bool("revcomp", false, "scan the reverse complement of each query")
	both := fs.Bool("both", false, "scan both strands (shorthand for -forward -revcomp)")
	join := fs.Bool("join", false, "treat all sequences in each input file as one concatenation")
	minLength := fs.Int("min_length", 0, "explicit anchor length threshold; 0 derives it from -p_value")
	pValue := fs.Float64("p_value", 0.05, "shustring significance level in [0,1]")
	workers := fs.Int("workers", runtime.GOMAXPROCS(0), "number of concurrent query workers")
	verbose := fs.Bool("v", false, "verbose: trace SA-interval comparisons")
	cpuProfile := fs.String("cpuprofile", "", "write a CPU profile to this directory")
	memProfile := fs.String("memprofile", "", "write a memory profile to this directory")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *both {
		*forward = true
		*revcomp = true
	}
	if !*forward && !*revcomp {
		return errors.Wrap(scan.ErrInvalidInput, "neither -forward nor -revcomp is set")
	}

	paths := fs.Args()
	if len(paths) < 2 {
		return errors.Wrap(scan.ErrInvalidInput, "usage: tummer [flags] reference.fasta query.fasta [query.fasta ...]")
	}

	if *cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*cpuProfile)).Stop()
	} else if *memProfile != "" {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(*memProfile)).Stop()
	}

	logger := log.New(os.Stderr, "", 0)

	reference, err := loadReference(paths[0], *join)
	if err != nil {
		return err
	}
	queries, closeQueries, err := loadQueries(paths[1:], *join, logger)
	if err != nil {
		return err
	}
	defer closeQueries()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	cfg := scan.RunConfig{
		Forward:   *forward,
		RevComp:   *revcomp,
		MinLength: *minLength,
		PValue:    *pValue,
		Workers:   *workers,
		Verbose:   *verbose,
		Logger:    logger,
		Out:       out,
	}

	return scan.Run(cfg, reference, queries)
}

func loadReference(path string, join bool) (*seq.Sequence, error) {
	if join {
		rec, closer, err := fasta.ReadJoined(path)
		if err != nil {
			return nil, errors.Wrap(scan.ErrInvalidInput, err.Error())
		}
		defer closer()
		return seq.New(rec.Name, rec.Data)
	}

	records, closer, err := fasta.Read(path)
	if err != nil {
		return nil, errors.Wrap(scan.ErrInvalidInput, err.Error())
	}
	defer closer()
	if len(records) == 0 {
		return nil, errors.Wrapf(scan.ErrInvalidInput, "reference file %s has no sequences", path)
	}
	return seq.New(records[0].Name, records[0].Data)
}

func loadQueries(paths []string, join bool, logger *log.Logger) ([]*seq.Sequence, func() error, error) {
	var queries []*seq.Sequence
	var closers []func() error
	closeAll := func() error {
		for _, c := range closers {
			c()
		}
		return nil
	}

	for _, path := range paths {
		if join {
			rec, closer, err := fasta.ReadJoined(path)
			if err != nil {
				closeAll()
				return nil, nil, errors.Wrap(scan.ErrInvalidInput, err.Error())
			}
			closers = append(closers, closer)
			s, err := seq.New(rec.Name, rec.Data)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			queries = append(queries, s)
			continue
		}

		records, closer, err := fasta.Read(path)
		if err != nil {
			closeAll()
			return nil, nil, errors.Wrap(scan.ErrInvalidInput, err.Error())
		}
		closers = append(closers, closer)
		for _, rec := range records {
			s, err := seq.New(rec.Name, rec.Data)
			if err != nil {
				// A single malformed record in a multi-FASTA query
				// file is logged and skipped; only the reference and
				// an empty query set are fatal.
				logger.Printf("skipping %q in %s: %v", rec.Name, path, err)
				continue
			}
			queries = append(queries, s)
		}
	}

	if len(queries) == 0 {
		closeAll()
		return nil, nil, errors.Wrap(scan.ErrInvalidInput, "no usable query sequences")
	}
	return queries, closeAll, nil
}
