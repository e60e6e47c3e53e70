// Package ingest consumes ledger blocks from Kafka and drives them through
// the pump one block at a time.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/amirasaad/ledgersync/pkg/decoder"
	cursorrepo "github.com/amirasaad/ledgersync/pkg/repository/cursor"
	"github.com/segmentio/kafka-go"
)

// Stream names the cursor row advanced by this consumer.
const Stream = "ledger.blocks"

type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type BlockProcessor interface {
	ProcessBlock(ctx context.Context, block decoder.Block) error
}

type Config struct {
	StartBlock   uint64
	RetryBackoff time.Duration
	MaxBackoff   time.Duration
	// MaxAttempts of zero retries a failing block forever.
	MaxAttempts int
	// CallTimeout bounds each commit, DLQ publish and cursor write.
	CallTimeout time.Duration
}

// Consumer commits a block only once every ref in it has been reconciled,
// parked in the DLQ, or found malformed.
type Consumer struct {
	reader    Reader
	dlq       Writer
	processor BlockProcessor
	cursor    cursorrepo.Repository
	cfg       Config
	sleep     func(ctx context.Context, d time.Duration) error
	logger    *slog.Logger
}

// NewConsumer builds a Consumer. dlq and cursor may be nil.
func NewConsumer(
	reader Reader,
	dlq Writer,
	processor BlockProcessor,
	cursor cursorrepo.Repository,
	cfg Config,
	logger *slog.Logger,
) *Consumer {
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 2 * time.Second
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	if cfg.MaxBackoff < cfg.RetryBackoff {
		cfg.MaxBackoff = cfg.RetryBackoff
	}
	return &Consumer{
		reader:    reader,
		dlq:       dlq,
		processor: processor,
		cursor:    cursor,
		cfg:       cfg,
		sleep:     sleepCtx,
		logger:    logger.With("component", "ingest.Consumer"),
	}
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	var last uint64
	if c.cursor != nil {
		if n, err := c.cursor.Get(ctx, Stream); err == nil {
			last = n
		}
	}
	c.logger.Info("📥 block consumer started", "start_block", c.cfg.StartBlock, "last_reconciled_block", last)
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("kafka fetch error", "error", err)
			if err := c.sleep(ctx, 500*time.Millisecond); err != nil {
				return nil
			}
			continue
		}

		if err := c.HandleMessage(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// HandleMessage processes one message to completion and commits it. It
// returns an error only when the message could not be committed or parked,
// or ctx ended first.
func (c *Consumer) HandleMessage(ctx context.Context, msg kafka.Message) error {
	log := c.logger.With("partition", msg.Partition, "offset", msg.Offset)

	var block decoder.Block
	if err := json.Unmarshal(msg.Value, &block); err != nil {
		log.Error("malformed block message", "error", err)
		if err := c.park(ctx, msg, err); err != nil {
			return err
		}
		return c.commit(ctx, msg)
	}
	log = log.With("block_number", block.Number)

	if block.Number < c.cfg.StartBlock {
		log.Debug("block below start block, skipping")
		return c.commit(ctx, msg)
	}

	backoff := c.cfg.RetryBackoff
	for attempt := 1; ; attempt++ {
		err := c.processor.ProcessBlock(ctx, block)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if c.cfg.MaxAttempts > 0 && attempt >= c.cfg.MaxAttempts {
			log.Error("block exhausted retries, parking", "attempts", attempt, "error", err)
			if err := c.park(ctx, msg, err); err != nil {
				return err
			}
			break
		}
		log.Warn("block failed, will retry", "attempt", attempt, "backoff", backoff, "error", err)
		if err := c.sleep(ctx, backoff); err != nil {
			return err
		}
		backoff = min(backoff*2, c.cfg.MaxBackoff)
	}

	if err := c.commit(ctx, msg); err != nil {
		return err
	}
	if c.cursor != nil {
		advCtx, cancel := c.callContext(ctx)
		if err := c.cursor.Advance(advCtx, Stream, block.Number); err != nil {
			log.Warn("failed to advance cursor", "error", err)
		}
		cancel()
	}
	log.Info("✅ block reconciled", "events", len(block.Events))
	return nil
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) error {
	commitCtx, cancel := c.callContext(ctx)
	defer cancel()
	if err := c.reader.CommitMessages(commitCtx, msg); err != nil {
		return fmt.Errorf("ingest: commit offset %d: %w", msg.Offset, err)
	}
	return nil
}

func (c *Consumer) park(ctx context.Context, msg kafka.Message, cause error) error {
	if c.dlq == nil {
		c.logger.Warn("no DLQ configured, dropping message", "offset", msg.Offset)
		return nil
	}
	out := kafka.Message{
		Key:   msg.Key,
		Value: msg.Value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "error", Value: []byte(cause.Error())},
			{Key: "source_offset", Value: []byte(strconv.FormatInt(msg.Offset, 10))},
		},
	}
	writeCtx, cancel := c.callContext(ctx)
	defer cancel()
	if err := c.dlq.WriteMessages(writeCtx, out); err != nil {
		return fmt.Errorf("ingest: dlq publish failed: %w", errors.Join(err, cause))
	}
	c.logger.Warn("message sent to DLQ", "offset", msg.Offset)
	return nil
}

// callContext outlives cancellation of ctx so a finished block still gets
// committed during shutdown, but never by more than CallTimeout.
func (c *Consumer) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), c.cfg.CallTimeout)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
