// Package pump feeds decoded ledger blocks through the event bus.
package pump

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/amirasaad/ledgersync/pkg/decoder"
	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/domain/events"
	"github.com/amirasaad/ledgersync/pkg/eventbus"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many ref groups of one block run at once.
const DefaultConcurrency = 8

type Decoder interface {
	Decode(raw decoder.RawEvent, block decoder.Block) (events.Event, error)
}

// Pump dispatches blocks. Events sharing a ref number run sequentially in
// event-index order; distinct refs run concurrently.
type Pump struct {
	decoder     Decoder
	bus         eventbus.Bus
	concurrency int
	logger      *slog.Logger
}

func New(dec Decoder, bus eventbus.Bus, concurrency int, logger *slog.Logger) *Pump {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Pump{decoder: dec, bus: bus, concurrency: concurrency, logger: logger.With("component", "pump")}
}

// BlockError lists the refs whose processing failed. The block must be
// redelivered; already handled refs are no-ops on redelivery.
type BlockError struct {
	Block  uint64
	Failed map[string]error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("block %d: %d ref(s) failed: %v", e.Block, len(e.Failed), e.Unwrap())
}

func (e *BlockError) Unwrap() error {
	refs := make([]string, 0, len(e.Failed))
	for ref := range e.Failed {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	errs := make([]error, 0, len(refs))
	for _, ref := range refs {
		errs = append(errs, e.Failed[ref])
	}
	return errors.Join(errs...)
}

// ProcessBlock returns nil when every event was handled or dropped as
// undecodable. Otherwise it returns a *BlockError and the caller must not
// advance past the block.
func (p *Pump) ProcessBlock(ctx context.Context, block decoder.Block) error {
	log := p.logger.With("block_number", block.Number)

	groups, order := p.group(block, log)
	if len(order) == 0 {
		return nil
	}

	failed := make([]error, len(order))
	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, ref := range order {
		g.Go(func() error {
			for _, e := range groups[ref] {
				if err := p.bus.Emit(ctx, e); err != nil {
					log.Error("event failed, holding ref for redelivery",
						"ref_number", ref, "event_type", e.Type(), "event_index", e.Metadata().EventIndex, "error", err)
					failed[i] = err
					// Later events of this ref may depend on this one.
					return nil
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	be := &BlockError{Block: block.Number, Failed: map[string]error{}}
	for i, err := range failed {
		if err != nil {
			be.Failed[order[i]] = err
		}
	}
	if len(be.Failed) > 0 {
		return be
	}
	log.Debug("block processed", "refs", len(order))
	return nil
}

func (p *Pump) group(block decoder.Block, log *slog.Logger) (map[string][]events.Event, []string) {
	raws := append([]decoder.RawEvent(nil), block.Events...)
	sort.SliceStable(raws, func(i, j int) bool { return raws[i].Index < raws[j].Index })

	groups := make(map[string][]events.Event)
	var order []string
	for _, raw := range raws {
		e, err := p.decoder.Decode(raw, block)
		switch {
		case errors.Is(err, decoder.ErrUnsupported):
			continue
		case errors.Is(err, domain.ErrDecode):
			log.Warn("dropping undecodable event", "event", raw.Name(), "event_index", raw.Index, "error", err)
			continue
		case err != nil:
			log.Error("dropping event after unexpected decode failure", "event", raw.Name(), "error", err)
			continue
		}
		ref := e.Identity()
		if _, ok := groups[ref]; !ok {
			order = append(order, ref)
		}
		groups[ref] = append(groups[ref], e)
	}
	return groups, order
}
