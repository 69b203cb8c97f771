package bahi

import (
	"context"

	"github.com/phuslu/log"
)

// BatchFailure records one rejected intent within a batch.
type BatchFailure struct {
	Index     int
	Reference Reference
	Err       error
}

// BatchResult is the outcome of a batch import: every intent either
// posted or failed, in input order.
type BatchResult struct {
	Posted   []JournalID
	Failures []BatchFailure
}

// ImportBatch posts each intent as its own atomic unit, with
// partial-failure semantics: a rejected intent is recorded and processing
// continues, and previously committed postings are never rolled back.
//
// The context is checked between intents only; there is no cancellation
// mid-posting. On cancellation the result so far is returned along with
// the context's error.
func ImportBatch(ctx context.Context, ledger *Ledger, intents []TransactionIntent, logger *log.Logger) (BatchResult, error) {
	var result BatchResult
	for i, intent := range intents {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		id, err := ledger.PostJournal(intent.Date, intent.Description, intent.Lines, intent.Reference)
		if err != nil {
			result.Failures = append(result.Failures, BatchFailure{Index: i, Reference: intent.Reference, Err: err})
			if logger != nil {
				logger.Warn().
					Int("index", i).
					Str("reference", intent.Reference.Type+":"+intent.Reference.ID).
					Err(err).
					Msg("intent rejected, continuing batch")
			}
			continue
		}
		result.Posted = append(result.Posted, id)
	}
	return result, nil
}
