// Package run drives a full reconciliation pass over the corpus and
// aggregates per-document and corpus-wide outcome counters.
package run

import (
	"context"
	"strings"

	"github.com/minios-linux/postkit/corpus"
	"github.com/minios-linux/postkit/langmeta"
	"github.com/minios-linux/postkit/plan"
	"github.com/minios-linux/postkit/translate"
)

// Logger receives progress lines as the run advances. The CLI wires
// this to its colored stderr helpers; tests use a silent
// implementation.
type Logger interface {
	Infof(format string, args ...any)
	Successf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

// DocStatus summarizes one document's run.
type DocStatus int

const (
	// StatusSkipped: nothing translated, nothing failed.
	StatusSkipped DocStatus = iota
	// StatusSuccess: at least one work item translated.
	StatusSuccess
	// StatusPartialError: nothing translated and at least one failure.
	StatusPartialError
)

// DocReport holds one document's counters.
type DocReport struct {
	Base       string
	Translated int
	Skipped    int
	Errored    int
	// Pending counts work items a dry run would have invoked.
	Pending int
}

// Status derives the document status from the counters.
func (d DocReport) Status() DocStatus {
	switch {
	case d.Translated > 0:
		return StatusSuccess
	case d.Errored > 0:
		return StatusPartialError
	default:
		return StatusSkipped
	}
}

// Report aggregates the whole run.
type Report struct {
	Docs       []DocReport
	Translated int
	Skipped    int
	Errored    int
	Pending    int
}

// Failed reports whether the run should exit non-zero: true iff any
// document ended in PartialError. Fully skipped documents never fail
// a run.
func (r *Report) Failed() bool {
	for _, d := range r.Docs {
		if d.Status() == StatusPartialError {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Runner
// ---------------------------------------------------------------------------

// Runner executes the scan → plan → invoke loop. Work items are
// dispatched strictly one at a time: the single loop below is the
// scheduler, and nothing in it runs concurrently.
type Runner struct {
	// Dir is the posts directory.
	Dir string
	// Source is the source language tag.
	Source string
	// Targets is the ordered target language list (source excluded).
	Targets []string
	// Invoker performs translations.
	Invoker *translate.Invoker
	// Oracle answers existence queries during planning.
	Oracle *corpus.Oracle
	// Log receives progress output.
	Log Logger
	// DryRun plans and reports without invoking the translator.
	DryRun bool
}

// Run processes every document in the corpus. Per-document errors are
// recorded and do not stop the run; only a failed corpus scan (missing
// directory) is returned as an error. Cancelling ctx stops the run
// between work items.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	docs, malformed, err := corpus.Scan(r.Dir, r.Source)
	if err != nil {
		return nil, err
	}
	for _, name := range malformed {
		r.Log.Warnf("skipping malformed filename %q", name)
	}
	if len(docs) == 0 {
		r.Log.Warnf("no %s source posts found in %s", r.Source, r.Dir)
	}

	report := &Report{}
	for _, doc := range docs {
		if ctx.Err() != nil {
			break
		}
		d := r.processDoc(ctx, doc)
		report.Docs = append(report.Docs, d)
		report.Translated += d.Translated
		report.Skipped += d.Skipped
		report.Errored += d.Errored
		report.Pending += d.Pending
	}
	return report, nil
}

func (r *Runner) processDoc(ctx context.Context, doc corpus.Document) DocReport {
	rep := DocReport{Base: doc.Name.Base}
	p := plan.Build(doc, r.Oracle, r.Targets)

	for _, lang := range p.Satisfied {
		r.Log.Infof("%s: %s already translated, skipping", doc.Name.Base, lang)
	}
	rep.Skipped += len(p.Satisfied)

	switch p.Kind {
	case plan.NoOp:
		// Fully satisfied.

	case plan.Combined:
		label := strings.Join(p.Langs, " ")
		if r.DryRun {
			r.Log.Infof("%s: would translate combined [%s]", doc.Name.Base, label)
			rep.Pending++
			break
		}
		r.Log.Infof("%s: translating combined [%s]...", doc.Name.Base, label)
		r.fold(&rep, doc.Name.Base, label, r.Invoker.Combined(ctx, doc, p.Langs))

	case plan.Individual:
		for _, lang := range p.Langs {
			if ctx.Err() != nil {
				break
			}
			if r.DryRun {
				r.Log.Infof("%s: would translate %s", doc.Name.Base, langmeta.Label(lang))
				rep.Pending++
				continue
			}
			r.Log.Infof("%s: translating %s...", doc.Name.Base, langmeta.Label(lang))
			r.fold(&rep, doc.Name.Base, lang, r.Invoker.Single(ctx, doc, lang))
		}
	}
	return rep
}

// fold records one work item outcome in the document counters.
func (r *Runner) fold(rep *DocReport, base, label string, out translate.Outcome) {
	switch out.Kind {
	case translate.Translated:
		rep.Translated++
		r.Log.Successf("%s: translated %s", base, label)
	case translate.AlreadySatisfied:
		rep.Skipped++
		r.Log.Infof("%s: %s already translated, skipping", base, label)
	case translate.Failed:
		rep.Errored++
		r.Log.Errorf("%s: %s failed: %v", base, label, out.Err)
	}
}
