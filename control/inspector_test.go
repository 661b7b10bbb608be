package control

import (
	"sync"
	"testing"
	"time"

	"github.com/momentics/hioload-rtstate/exchange"
)

func TestInspectorSamplesPublishedValue(t *testing.T) {
	s := exchange.NewSingle[uint32](0)

	w := s.BeginWrite()
	*w = 7
	s.EndWrite()
	s.TrySwitch()

	insp := NewInspector(func() uint64 { return uint64(s.CurrentIndex()) }, func() uint32 { return *s.ReadCurrent() })
	if got := insp.Sample(); got != 7 {
		t.Fatalf("expected sample 7, got %d", got)
	}
}

func TestInspectorNeverObservesTornValue(t *testing.T) {
	type Pair struct{ A, B uint32 }
	s := exchange.NewSingle(Pair{})

	insp := NewInspector(func() uint64 { return uint64(s.CurrentIndex()) }, func() Pair { return *s.ReadCurrent() })

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		var n uint32
		for {
			select {
			case <-stop:
				return
			default:
				n++
				w := s.BeginWrite()
				w.A = n
				w.B = n
				s.EndWrite()
				s.TrySwitch()
			}
		}
	}()

	deadline := time.After(2 * time.Second)
	for i := 0; i < 10000; i++ {
		select {
		case <-deadline:
			t.Fatalf("test exceeded its deadline")
		default:
		}
		p := insp.Sample()
		if p.A != p.B {
			t.Fatalf("observed torn value: %+v", p)
		}
	}
	close(stop)
	wg.Wait()
}

func TestSampleIntoStoresUnderKey(t *testing.T) {
	s := exchange.NewSingle[uint32](5)
	insp := NewInspector(func() uint64 { return uint64(s.CurrentIndex()) }, func() uint32 { return *s.ReadCurrent() })

	mr := NewMetricsRegistry()
	SampleInto(mr, "answer", insp)

	snap := mr.GetSnapshot()
	if snap["answer"] != uint32(5) {
		t.Fatalf("expected answer=5 in snapshot, got %+v", snap)
	}
}
