package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/etnz/pension"
	"github.com/etnz/pension/date"
	"github.com/segmentio/kafka-go"
)

type recorder struct{ msgs []kafka.Message }

func (r *recorder) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	r.msgs = append(r.msgs, msgs...)
	return nil
}

func (r *recorder) Close() error { return nil }

func TestNotify(t *testing.T) {
	now := time.Date(2024, 2, 1, 10, 11, 12, 0, time.UTC)
	rec := &recorder{}
	p := &Publisher{writer: rec, now: func() time.Time { return now }}

	outcome := pension.Outcome{State: pension.Done, Writes: []pension.Write{
		{Index: 7, Row: pension.LedgerRow{
			Date: date.New(2024, time.January, 15), Value: pension.MustAmount("110"), Change: pension.MustAmount("10"),
			IsPayment: true, TotalContributions: pension.MustAmount("110"), RateOfReturn: 0,
		}},
		{Index: 8, Row: pension.LedgerRow{
			Date: date.New(2024, time.February, 1), Value: pension.MustAmount("3"), RateOfReturn: pension.UndefinedRate,
		}},
	}}
	if err := p.Notify(context.Background(), "pass-1", outcome); err != nil {
		t.Fatalf("Notify() error: %v", err)
	}
	if len(rec.msgs) != 2 {
		t.Fatalf("Notify() sent %d messages, want 2", len(rec.msgs))
	}
	want := `{"pass_id":"pass-1","slot":7,"date":"15/01/2024","value":110.00,"change":10.00,"payment":true,"total_contributions":110.00,"total_gain":0.00,"rate_of_return":0,"occurred_at":"2024-02-01T10:11:12Z"}`
	if got := string(rec.msgs[0].Value); got != want {
		t.Errorf("message =\n%s\nwant\n%s", got, want)
	}
	if string(rec.msgs[1].Key) != "pass-1" {
		t.Errorf("key = %q", rec.msgs[1].Key)
	}
	var e map[string]any
	if err := json.Unmarshal(rec.msgs[1].Value, &e); err != nil {
		t.Fatal(err)
	}
	if e["rate_of_return"] != nil {
		t.Errorf("undefined rate of return should be null, got %v", e["rate_of_return"])
	}
}

func TestNotifyNothing(t *testing.T) {
	rec := &recorder{}
	p := &Publisher{writer: rec, now: time.Now}
	if err := p.Notify(context.Background(), "pass-2", pension.Outcome{State: pension.NoOp}); err != nil || len(rec.msgs) != 0 {
		t.Errorf("a no-op outcome should not publish: %v, %d messages", err, len(rec.msgs))
	}
}
