// Package scan implements the driver (spec component C6): for each
// query sequence it walks positions against the reference's enhanced
// suffix array, extends matches maximally on the reference side, and
// emits the ones that are both unique in the reference and at least
// as long as the anchor threshold.
package scan

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/kloetzl/tummer/internal/esa"
	"github.com/kloetzl/tummer/internal/match"
	"github.com/kloetzl/tummer/internal/seq"
	"github.com/kloetzl/tummer/internal/threshold"
)

// Error kinds surfaced to the CLI layer; wrapped with call-site
// context via github.com/pkg/errors on their way to main.
var (
	ErrInvalidInput     = errors.New("scan: invalid input")
	ErrIndexBuildFailed = errors.New("scan: index build failed")
	ErrIOFailure        = errors.New("scan: output write failed")
)

// RunConfig is the immutable configuration threaded through the
// driver and match engine in place of process-wide globals.
type RunConfig struct {
	Forward   bool
	RevComp   bool
	MinLength int     // explicit threshold; 0 = derive from PValue
	PValue    float64 // shustring significance, default threshold.DefaultPValue
	Workers   int     // 0 = runtime.GOMAXPROCS(0)
	Verbose   bool
	Logger    *log.Logger
	Out       io.Writer
}

// Run builds the ESA over reference and scans every query against it,
// writing the MUMmer-style per-query blocks to cfg.Out. At least one
// of cfg.Forward/cfg.RevComp must be true; callers should validate
// that at the CLI boundary (see cmd/tummer) rather than rely on Run's
// defensive check.
func Run(cfg RunConfig, reference *seq.Sequence, queries []*seq.Sequence) error {
	if !cfg.Forward && !cfg.RevComp {
		return errors.Wrap(ErrInvalidInput, "scan: neither forward nor revcomp requested")
	}
	if len(queries) == 0 {
		return errors.Wrap(ErrInvalidInput, "scan: no query sequences")
	}

	index, err := esa.Build(seq.SubjectText(reference))
	if err != nil {
		return errors.Wrap(ErrIndexBuildFailed, err.Error())
	}

	pValue := cfg.PValue
	if pValue <= 0 {
		pValue = threshold.DefaultPValue
	}
	minLen := threshold.MinAnchorLength(cfg.MinLength, pValue, reference.GC()/2, reference.Len())

	if reference.NonACGT && cfg.Logger != nil {
		cfg.Logger.Printf("reference %q contains non-ACGT residues, coerced to N", reference.Name)
	}

	return runWorkerPool(cfg, index, minLen, queries)
}

// runWorkerPool scans queries data-parallel (spec.md §5): each
// worker claims a query off a shared channel and renders its full
// header+anchors block into a private buffer, which it hands to a
// single writer goroutine so per-query blocks stay atomic on the
// output stream regardless of completion order.
func runWorkerPool(cfg RunConfig, index *esa.ESA, minLen int32, queries []*seq.Sequence) error {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(queries) {
		workers = len(queries)
	}

	jobs := make(chan int)
	results := make(chan []byte, workers)
	var writeErr error
	var writeErrOnce sync.Once

	var writerWG sync.WaitGroup
	writerWG.Add(1)
	go func() {
		defer writerWG.Done()
		for b := range results {
			if _, err := cfg.Out.Write(b); err != nil {
				writeErrOnce.Do(func() {
					writeErr = errors.Wrap(ErrIOFailure, err.Error())
				})
			}
		}
	}()

	var workerWG sync.WaitGroup
	for w := 0; w < workers; w++ {
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			for qi := range jobs {
				results <- renderQuery(cfg, index, minLen, queries[qi])
			}
		}()
	}

	for qi := range queries {
		jobs <- qi
	}
	close(jobs)
	workerWG.Wait()
	close(results)
	writerWG.Wait()

	return writeErr
}

// renderQuery produces the complete forward/revcomp block(s) for one
// query sequence in a private buffer, per spec.md §5's per-query
// atomicity requirement.
func renderQuery(cfg RunConfig, index *esa.ESA, minLen int32, query *seq.Sequence) []byte {
	var buf bytes.Buffer
	if cfg.Forward {
		writeHeader(&buf, query.Name, false)
		scanStrand(&buf, cfg, index, minLen, query.Bytes)
	}
	if cfg.RevComp {
		writeHeader(&buf, query.Name, true)
		scanStrand(&buf, cfg, index, minLen, query.RevComp())
	}
	return buf.Bytes()
}

func writeHeader(buf *bytes.Buffer, name string, reverse bool) {
	if reverse {
		fmt.Fprintf(buf, "> %s Reverse\n", name)
	} else {
		fmt.Fprintf(buf, "> %s\n", name)
	}
}

// scanStrand walks one strand of one query per spec.md §4.6's state
// machine: Start -> Lookup -> (Singleton|NonUnique|NoMatch) -> Advance
// -> Start, terminating when q >= len(text).
func scanStrand(buf *bytes.Buffer, cfg RunConfig, index *esa.ESA, minLen int32, text []byte) {
	refText := index.TextBytes()
	sa := index.SuffixArray()

	q := 0
	for q < len(text) {
		r := match.GetMatchCached(index, text[q:])

		if cfg.Verbose && cfg.Logger != nil {
			cfg.Logger.Printf("comparing %d and %d", r.I, r.J)
		}

		refPos := int(sa[r.I])
		length := int(r.L)

		// Maximal-match extension: extend leftward on the reference
		// side as long as the preceding bytes agree. Per spec.md's
		// DESIGN NOTES, stop at position 0 rather than dereferencing
		// S[SA[i]-1] when SA[i] == 0 (the source's latent bug).
		extRefPos, extQPos, extLen := refPos, q, length
		for extRefPos > 0 && extQPos > 0 && seq.BasesEqual(refText[extRefPos-1], text[extQPos-1]) {
			extRefPos--
			extQPos--
			extLen++
		}

		if r.I == r.J && extLen >= int(minLen) {
			fmt.Fprintf(buf, "%8d  %8d  %8d\n", extRefPos+1, extQPos+1, extLen)
		}

		// Skip-past-match advancement (spec.md §9): intentional, the
		// source of the documented ~3% miss rate on overlapping MUMs.
		// Preserved verbatim, driven by the unextended match length.
		q += length + 1
	}
}
