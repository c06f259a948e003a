// Package plan computes, per source document, the translation work
// that is still outstanding.
package plan

import (
	"strings"

	"github.com/minios-linux/postkit/corpus"
)

// Kind tags a Plan.
type Kind int

const (
	// NoOp: every target is already satisfied; nothing to invoke.
	NoOp Kind = iota
	// Individual: one single-language work item per entry in Langs.
	Individual
	// Combined: one all-or-nothing work item covering Langs in order.
	Combined
)

// Plan is the reconciliation result for one document.
type Plan struct {
	Kind Kind
	// Langs are the languages still to translate: the missing targets
	// of an Individual plan, or the embedded target set of a Combined
	// plan.
	Langs []string
	// Satisfied are targets that already have a valid artifact. A
	// satisfied combined set appears as one space-joined entry, since
	// it is skipped as one unit.
	Satisfied []string
}

// Build plans the outstanding work for doc against the configured
// target languages.
//
// A document whose filename embeds more than one target-side tag is a
// combined source grouping and is planned as a single combined item
// for exactly that set. Every other document is planned individually:
// each configured target (the source language excluded) that the
// oracle cannot satisfy becomes a work item, and the rest are recorded
// as satisfied. Configured order decides processing order.
func Build(doc corpus.Document, oracle *corpus.Oracle, targets []string) Plan {
	if doc.Name.IsCombinedSource() {
		set := doc.Name.TargetLangs
		if oracle.ExistsMulti(doc.Name.Base, set) {
			return Plan{Kind: NoOp, Satisfied: []string{strings.Join(set, " ")}}
		}
		return Plan{Kind: Combined, Langs: set}
	}

	var missing, satisfied []string
	for _, lang := range targets {
		if lang == doc.Name.SourceLang {
			continue
		}
		if oracle.Exists(doc.Name.Base, lang) {
			satisfied = append(satisfied, lang)
			continue
		}
		missing = append(missing, lang)
	}

	if len(missing) == 0 {
		return Plan{Kind: NoOp, Satisfied: satisfied}
	}
	return Plan{Kind: Individual, Langs: missing, Satisfied: satisfied}
}
