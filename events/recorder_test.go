package events

import "testing"

func TestRecorderCapturesInOrder(t *testing.T) {
	r := NewRecorder(0)
	r.Emit(MarketCreated{MarketID: 1})
	r.Emit(Trade{MarketID: 1, IsBuy: true})

	got := r.Events()
	if len(got) != 2 {
		t.Fatalf("len(Events()) = %d, want 2", len(got))
	}
	if got[0].EventType() != TypeMarketCreated {
		t.Fatalf("Events()[0] = %s, want %s", got[0].EventType(), TypeMarketCreated)
	}
	if got[1].EventType() != TypeTrade {
		t.Fatalf("Events()[1] = %s, want %s", got[1].EventType(), TypeTrade)
	}
}

func TestRecorderRingBufferEvictsOldest(t *testing.T) {
	r := NewRecorder(2)
	r.Emit(MarketCreated{MarketID: 1})
	r.Emit(MarketCreated{MarketID: 2})
	r.Emit(MarketCreated{MarketID: 3})

	got := r.Events()
	if len(got) != 2 {
		t.Fatalf("len(Events()) = %d, want 2", len(got))
	}
	first := got[0].(MarketCreated)
	second := got[1].(MarketCreated)
	if first.MarketID != 2 || second.MarketID != 3 {
		t.Fatalf("ring buffer kept wrong events: %+v %+v", first, second)
	}
}

func TestRecorderLastAndReset(t *testing.T) {
	r := NewRecorder(0)
	if r.Last() != nil {
		t.Fatalf("Last() on empty recorder should be nil")
	}
	r.Emit(Paused{})
	if r.Last().EventType() != TypePaused {
		t.Fatalf("Last() = %v, want Paused", r.Last())
	}
	r.Reset()
	if len(r.Events()) != 0 {
		t.Fatalf("Events() after Reset should be empty")
	}
}

func TestNoopEmitterDiscards(t *testing.T) {
	var e Emitter = NoopEmitter{}
	e.Emit(Paused{}) // must not panic
}
