// Package importer parses, validates, and persists bulk question uploads
// in the XML exchange format.
package importer

import (
	"context"
	_ "embed"
	"io"
	"log/slog"
)

//go:embed template.xml
var templateXML []byte

// Template returns the downloadable starter document admins fill in.
func Template() []byte { return templateXML }

// Store is the persistence surface an import needs.
type Store interface {
	QuestionCount(ctx context.Context) (int, error)
	DeleteAllQuestions(ctx context.Context) error
	InsertQuestion(ctx context.Context, q QuestionImport) (id string, err error)
	InsertOptions(ctx context.Context, questionID string, opts []OptionImport) error
}

// Importer runs bulk XML imports against a Store.
type Importer struct {
	store Store
	log   *slog.Logger
}

func New(store Store, log *slog.Logger) *Importer {
	return &Importer{store: store, log: log}
}

// Import parses and validates the document, then persists its questions.
// With replace set, all existing questions go first and the batch starts at
// order 1; otherwise the batch appends after the current highest order.
//
// Persistence is best-effort and sequential: each question commits on its
// own, and a mid-batch failure returns a PersistenceError carrying how many
// questions made it in. Already committed rows stay.
func (im *Importer) Import(ctx context.Context, r io.Reader, replace bool) (int, error) {
	startOrder := 1
	if !replace {
		count, err := im.store.QuestionCount(ctx)
		if err != nil {
			return 0, &PersistenceError{Err: err}
		}
		startOrder = count + 1
	}

	questions, err := Parse(r, startOrder)
	if err != nil {
		return 0, err
	}
	if err := Validate(questions); err != nil {
		return 0, err
	}

	// The wipe waits until the batch is known good, so a rejected upload
	// never leaves the game empty.
	if replace {
		if err := im.store.DeleteAllQuestions(ctx); err != nil {
			return 0, &PersistenceError{Err: err}
		}
	}

	committed := 0
	for _, q := range questions {
		id, err := im.store.InsertQuestion(ctx, q)
		if err != nil {
			return committed, &PersistenceError{Committed: committed, Err: err}
		}
		if len(q.Options) > 0 {
			if err := im.store.InsertOptions(ctx, id, q.Options); err != nil {
				return committed, &PersistenceError{Committed: committed, Err: err}
			}
		}
		committed++
		im.log.Debug("imported question", "order", q.Order, "mode", string(q.AnswerMode))
	}

	im.log.Info("import finished", "questions", committed, "replace", replace)
	return committed, nil
}
