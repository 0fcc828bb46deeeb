// Package outbox provides a durable queue of trade events backed by
// pebble. Events are appended inside the settlement commit and deleted
// once published, so delivery downstream is at-least-once.
package outbox

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/efreitasn/minisettle/internal/domain"
)

// Record is one queued trade event awaiting publication.
type Record struct {
	Seq        uint64            `json:"-"`
	Event      domain.TradeEvent `json:"event"`
	Attempts   int               `json:"attempts"`
	EnqueuedAt time.Time         `json:"enqueued_at"`
}

// Outbox is the pebble-backed event queue. Records are keyed by a
// monotonic sequence so pending order matches enqueue order.
type Outbox struct {
	db  *pebble.DB
	seq atomic.Uint64
}

// Open opens (or creates) the outbox at dir and resumes the sequence
// counter after the highest existing record.
func Open(dir string) (*Outbox, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}

	o := &Outbox{db: db}

	iter, err := db.NewIter(nil)
	if err != nil {
		db.Close()
		return nil, err
	}
	if iter.Last() {
		seq, err := parseKey(iter.Key())
		if err != nil {
			iter.Close()
			db.Close()
			return nil, err
		}
		o.seq.Store(seq)
	}
	if err := iter.Close(); err != nil {
		db.Close()
		return nil, err
	}

	return o, nil
}

// Close closes the underlying database.
func (o *Outbox) Close() error {
	return o.db.Close()
}

// Append durably enqueues an event. It is called from inside the
// settlement commit: a failure here means the settlement is not applied.
func (o *Outbox) Append(ev domain.TradeEvent) error {
	rec := Record{
		Event:      ev,
		EnqueuedAt: time.Now().UTC(),
	}
	val, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	seq := o.seq.Add(1)
	return o.db.Set(keyFor(seq), val, pebble.Sync)
}

// Pending returns up to limit queued records in enqueue order.
func (o *Outbox) Pending(limit int) ([]Record, error) {
	iter, err := o.db.NewIter(nil)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var recs []Record
	for iter.First(); iter.Valid() && len(recs) < limit; iter.Next() {
		seq, err := parseKey(iter.Key())
		if err != nil {
			return nil, err
		}
		var rec Record
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			return nil, err
		}
		rec.Seq = seq
		recs = append(recs, rec)
	}
	return recs, iter.Error()
}

// MarkPublished removes a delivered record.
func (o *Outbox) MarkPublished(seq uint64) error {
	return o.db.Delete(keyFor(seq), pebble.Sync)
}

// MarkFailed increments the record's attempt count so repeatedly failing
// events are visible to operators. The record stays queued.
func (o *Outbox) MarkFailed(rec Record) error {
	rec.Attempts++
	val, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return o.db.Set(keyFor(rec.Seq), val, pebble.Sync)
}

// Len returns the number of queued records.
func (o *Outbox) Len() (int, error) {
	iter, err := o.db.NewIter(nil)
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		n++
	}
	return n, iter.Error()
}

func keyFor(seq uint64) []byte {
	return []byte(fmt.Sprintf("event/%020d", seq))
}

func parseKey(b []byte) (uint64, error) {
	var seq uint64
	_, err := fmt.Sscanf(string(b), "event/%d", &seq)
	return seq, err
}
