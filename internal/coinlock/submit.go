package coinlock

import (
	"context"
	"errors"
	"fmt"

	"github.com/Klingon-tech/coinlock/internal/history"
	"github.com/Klingon-tech/coinlock/internal/log"
	"github.com/Klingon-tech/coinlock/internal/wallet"
	"github.com/Klingon-tech/coinlock/pkg/tx"
)

// Result is the outcome of a submitted or dry-run transaction.
type Result struct {
	Digest  string
	Success bool
	Error   string
	GasUsed uint64 // MIST
	DryRun  bool
}

// submit dry-runs td or signs and executes it through w, journaling real
// submissions. A failed effects status is returned as
// *wallet.ExecutionError together with the result.
func (s *Service) submit(ctx context.Context, w Wallet, td *tx.TransactionData, dryRun bool, entry history.Entry) (*Result, error) {
	digest := td.Digest().String()
	logger := log.Lock.With().Str("kind", string(entry.Kind)).Str("digest", digest).Logger()

	if dryRun {
		resp, err := s.chain.DryRunTransactionBlock(ctx, td.Bytes())
		if err != nil {
			return nil, fmt.Errorf("dry run: %w", err)
		}
		res := &Result{
			Digest:  digest,
			Success: resp.Success(),
			Error:   resp.Error,
			GasUsed: resp.GasUsed.Net(),
			DryRun:  true,
		}
		logger.Info().Bool("success", res.Success).Uint64("gas", res.GasUsed).Msg("dry run")
		if !res.Success {
			return res, &wallet.ExecutionError{Digest: digest, Message: resp.Error}
		}
		return res, nil
	}

	entry.Digest = digest
	entry.Sender = td.Sender.String()
	resp, err := w.SignAndExecute(ctx, td)

	var execErr *wallet.ExecutionError
	switch {
	case err == nil:
		entry.Status = history.StatusSuccess
	case errors.As(err, &execErr):
		entry.Status = history.StatusFailure
		entry.Error = execErr.Message
	default:
		entry.Status = history.StatusUnknown
		entry.Error = err.Error()
	}
	if resp != nil {
		entry.GasUsed = resp.GasUsed.Net()
	}
	s.record(entry)

	if err != nil && resp == nil {
		return nil, err
	}
	res := &Result{
		Digest:  resp.Digest,
		Success: resp.Success(),
		Error:   resp.Error,
		GasUsed: resp.GasUsed.Net(),
	}
	if res.Digest == "" {
		res.Digest = digest
	}
	if err == nil {
		logger.Info().Uint64("gas", res.GasUsed).Msg("transaction succeeded")
	}
	return res, err
}

func (s *Service) record(e history.Entry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(e); err != nil {
		log.Lock.Warn().Err(err).Str("digest", e.Digest).Msg("failed to record history")
	}
}
