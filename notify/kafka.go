// Package notify publishes the rows written by a reconciliation pass.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/etnz/pension"
	"github.com/etnz/pension/date"
	"github.com/segmentio/kafka-go"
)

// DefaultTopic receives the RowRecorded events.
const DefaultTopic = "pension.row_recorded"

// RowRecorded is the event published for each row written.
type RowRecorded struct {
	PassID             string         `json:"pass_id"`
	Slot               int            `json:"slot"`
	Date               date.Date      `json:"date"`
	Value              pension.Amount `json:"value"`
	Change             pension.Amount `json:"change"`
	Payment            bool           `json:"payment"`
	TotalContributions pension.Amount `json:"total_contributions"`
	TotalGain          pension.Amount `json:"total_gain"`
	RateOfReturn       pension.Rate   `json:"rate_of_return"`
	OccurredAt         time.Time      `json:"occurred_at"`
}

// Events returns the events of an outcome, in write order.
func Events(passID string, outcome pension.Outcome, now time.Time) []RowRecorded {
	events := make([]RowRecorded, 0, len(outcome.Writes))
	for _, w := range outcome.Writes {
		r := w.Row
		events = append(events, RowRecorded{
			PassID:             passID,
			Slot:               w.Index,
			Date:               r.Date,
			Value:              r.Value,
			Change:             r.Change,
			Payment:            r.IsPayment,
			TotalContributions: r.TotalContributions,
			TotalGain:          r.TotalGain,
			RateOfReturn:       r.RateOfReturn,
			OccurredAt:         now,
		})
	}
	return events
}

// messageWriter is the part of kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher is a pension.Notifier writing to a Kafka topic.
type Publisher struct {
	writer messageWriter
	now    func() time.Time
}

var _ pension.Notifier = (*Publisher)(nil)

// NewPublisher returns a Publisher to topic on brokers.
func NewPublisher(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		now: time.Now,
	}
}

// Notify implements pension.Notifier. Messages are keyed by pass id.
func (p *Publisher) Notify(ctx context.Context, passID string, outcome pension.Outcome) error {
	var msgs []kafka.Message
	for _, e := range Events(passID, outcome, p.now().UTC()) {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{Key: []byte(passID), Value: data})
	}
	if len(msgs) == 0 {
		return nil
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error { return p.writer.Close() }
