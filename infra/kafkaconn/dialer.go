// Package kafkaconn builds the dialer and transport shared by every Kafka
// reader and writer in the process.
package kafkaconn

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/amirasaad/ledgersync/pkg/config"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// Conn carries the connection settings for readers (Dialer) and writers
// (Transport). Transport is nil when neither TLS nor SASL is configured.
type Conn struct {
	Brokers   []string
	Dialer    *kafka.Dialer
	Transport *kafka.Transport
}

func New(cfg *config.Kafka) (*Conn, error) {
	if cfg == nil || len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: at least one broker is required")
	}
	tlsConfig, err := tlsFrom(cfg)
	if err != nil {
		return nil, err
	}
	mechanism, err := saslFrom(cfg)
	if err != nil {
		return nil, err
	}

	conn := &Conn{
		Brokers: cfg.Brokers,
		Dialer: &kafka.Dialer{
			Timeout:       5 * time.Second,
			DualStack:     true,
			TLS:           tlsConfig,
			SASLMechanism: mechanism,
		},
	}
	if tlsConfig != nil || mechanism != nil {
		conn.Transport = &kafka.Transport{TLS: tlsConfig, SASL: mechanism}
	}
	return conn, nil
}

// Writer returns a writer for topic. Topic creation is left to the broker.
func (c *Conn) Writer(topic string) *kafka.Writer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(c.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	if c.Transport != nil {
		w.Transport = c.Transport
	}
	return w
}

// Reader returns a consumer-group reader with manual commits.
func (c *Conn) Reader(groupID, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.Brokers,
		GroupID:     groupID,
		Topic:       topic,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     time.Second,
		Dialer:      c.Dialer,
	})
}

func tlsFrom(cfg *config.Kafka) (*tls.Config, error) {
	if !cfg.TLSEnabled {
		return nil, nil
	}
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.TLSSkipVerify, //nolint:gosec
	}
	if caFile := strings.TrimSpace(cfg.TLSCAFile); caFile != "" {
		pem, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("kafka: read tls ca file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("kafka: invalid tls ca file %q", caFile)
		}
		tlsConfig.RootCAs = pool
	}
	return tlsConfig, nil
}

func saslFrom(cfg *config.Kafka) (sasl.Mechanism, error) {
	username := strings.TrimSpace(cfg.SASLUsername)
	password := strings.TrimSpace(cfg.SASLPassword)
	switch {
	case username == "" && password == "":
		return nil, nil
	case username == "" || password == "":
		return nil, fmt.Errorf("kafka: sasl username and password are both required")
	}
	return plain.Mechanism{Username: username, Password: password}, nil
}
