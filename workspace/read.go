package workspace

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/dhamidi/mcnpdeck/deck"
	"github.com/dhamidi/mcnpdeck/source"
)

// resolveReads splices the cards of every file named by a READ card in
// res into the item stream, in place of the card. Names are relative to
// the directory of the file holding the card. stack holds the files being
// read, outermost first, and stops include cycles.
func (w *Workspace) resolveReads(path string, res *deck.Result, stack []string) (*deck.Result, []string) {
	if !slices.ContainsFunc(res.Records, (*deck.Record).IsRead) {
		return res, nil
	}

	out := &deck.Result{}
	var includes []string
	for _, it := range res.Items {
		if it.Record == nil || !it.Record.IsRead() {
			out.Add(it)
			continue
		}

		card := it.Record
		name, err := card.ReadFile()
		if err != nil {
			out.Add(deck.Item{Diagnostic: deck.NewReadDiagnostic(card, err)})
			continue
		}
		incPath := filepath.Join(filepath.Dir(path), name)
		if slices.Contains(stack, incPath) {
			out.Add(deck.Item{Diagnostic: deck.NewReadDiagnostic(card, fmt.Errorf("%s is already being read", name))})
			continue
		}

		content, err := source.ReadFile(incPath, w.config.SourceEncoding())
		if err != nil {
			log.Warningf("%s: READ %s: %v", path, name, err)
			out.Add(deck.Item{Diagnostic: deck.NewReadDiagnostic(card, err)})
			continue
		}

		opts := append(w.config.Options(w.displayName(incPath)), deck.WithStartBlock(card.Block))
		sub, subIncludes := w.resolveReads(incPath, deck.Parse(content, opts...), append(slices.Clip(stack), incPath))
		includes = append(includes, incPath)
		includes = append(includes, subIncludes...)
		for _, subItem := range sub.Items {
			out.Add(subItem)
		}
	}
	return out, includes
}
