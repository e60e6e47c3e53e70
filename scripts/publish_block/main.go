// Command publish_block pushes recorded ledger blocks onto the blocks topic
// so a local consumer can be exercised end to end.
//
// Usage: go run ./scripts/publish_block block-1.json [block-2.json ...]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/amirasaad/ledgersync/infra/kafkaconn"
	"github.com/amirasaad/ledgersync/pkg/config"
	"github.com/amirasaad/ledgersync/pkg/decoder"
	"github.com/segmentio/kafka-go"
)

func publish(ctx context.Context, files []string, logger *slog.Logger) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	conn, err := kafkaconn.New(cfg.Kafka)
	if err != nil {
		return err
	}
	w := conn.Writer(cfg.Kafka.BlocksTopic)
	defer func() { _ = w.Close() }()

	for _, f := range files {
		raw, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		var block decoder.Block
		if err := json.Unmarshal(raw, &block); err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		err = w.WriteMessages(ctx, kafka.Message{
			Key:   []byte(strconv.FormatUint(block.Number, 10)),
			Value: raw,
			Time:  time.Now(),
		})
		if err != nil {
			logger.Error("write failed", "file", f, "error", err)
			return err
		}
		logger.Info("published", "topic", cfg.Kafka.BlocksTopic, "block", block.Number, "events", len(block.Events))
	}
	return nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if len(os.Args) < 2 {
		fmt.Println("usage: publish_block <block.json>...")
		os.Exit(2)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := publish(ctx, os.Args[1:], logger); err != nil {
		os.Exit(1)
	}
}
