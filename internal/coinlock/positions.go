package coinlock

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Klingon-tech/coinlock/internal/format"
	"github.com/Klingon-tech/coinlock/internal/log"
	"github.com/Klingon-tech/coinlock/internal/suiclient"
	"github.com/Klingon-tech/coinlock/pkg/types"
)

// NoNote is shown for locks without a note.
const NoNote = "N/A"

// maxNoteFetches bounds concurrent dynamic field lookups.
const maxNoteFetches = 8

// noteField is the dynamic field name the contract stores notes under:
// the bytes of "note" as a vector<u8>.
var noteField = suiclient.DynamicFieldName{
	Type:  "vector<u8>",
	Value: []int{'n', 'o', 't', 'e'},
}

// Position is one lock owned by the account.
type Position struct {
	ID         types.ObjectID
	Balance    uint64 // MIST
	DurationMs uint64
	CreatedMs  uint64
	Note       string
	Range      format.TimeRange
}

// AmountLabel renders the locked amount with 4 decimals.
func (p Position) AmountLabel() string {
	return format.FormatBalanceFixed(p.Balance, 4) + " SUI"
}

// NoteLabel returns the note, or NoNote when there is none.
func (p Position) NoteLabel() string {
	if p.Note == "" {
		return NoNote
	}
	return p.Note
}

// CanWithdraw reports whether the lock has matured.
func (p Position) CanWithdraw() bool {
	return p.Range.HasEnded
}

// Positions lists the account's locks with their notes, in the order the
// node returned them.
func (s *Service) Positions(ctx context.Context) ([]Position, error) {
	_, addr, err := s.connected()
	if err != nil {
		return nil, err
	}
	objects, err := s.chain.GetOwnedObjects(ctx, addr, s.contract.StructType())
	if err != nil {
		return nil, fmt.Errorf("query locks: %w", err)
	}

	now := s.now()
	positions := make([]Position, len(objects))
	for i, obj := range objects {
		p, err := parsePosition(obj)
		if err != nil {
			return nil, err
		}
		p.Range = format.FormatTimeRange(p.CreatedMs, p.DurationMs, now, s.loc)
		positions[i] = p
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxNoteFetches)
	for i := range positions {
		p := &positions[i]
		g.Go(func() error {
			p.Note = s.note(gctx, p.ID)
			return nil
		})
	}
	// note never fails, so neither does the group.
	_ = g.Wait()
	return positions, nil
}

// note fetches the note of a lock. Lookup failures are logged and read as
// no note.
func (s *Service) note(ctx context.Context, id types.ObjectID) string {
	obj, err := s.chain.GetDynamicFieldObject(ctx, id, noteField)
	if err != nil {
		log.Lock.Warn().Err(err).Str("lock", id.Short()).Msg("note lookup failed")
		return ""
	}
	if obj == nil {
		return ""
	}
	return obj.Field("value").String()
}

func parsePosition(obj *suiclient.Object) (Position, error) {
	p := Position{ID: obj.ObjectID}
	var err error
	if p.Balance, err = obj.FieldUint("balance"); err != nil {
		return Position{}, err
	}
	if p.DurationMs, err = obj.FieldUint("duration"); err != nil {
		return Position{}, err
	}
	if p.CreatedMs, err = obj.FieldUint("time_created"); err != nil {
		return Position{}, err
	}
	return p, nil
}
