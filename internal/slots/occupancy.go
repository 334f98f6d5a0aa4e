package slots

import (
	"context"
	"math/rand"
	"sync"
)

// OccupancyProvider reports how many seats are already taken on a candidate
// slot. The store-backed implementation lives in the repository package; the
// demo provider below is only valid for unauthenticated catalogs.
type OccupancyProvider interface {
	SeatsFilled(ctx context.Context, activityID int64, date, startTime string, capacity int) (int, error)
}

// DemoOccupancy simulates seats filled with a weighted policy biased toward
// almost-full and already-confirmed slots. Placeholder for real booked-seat
// counts.
type DemoOccupancy struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewDemoOccupancy(seed int64) *DemoOccupancy {
	return &DemoOccupancy{rnd: rand.New(rand.NewSource(seed))}
}

func (d *DemoOccupancy) SeatsFilled(_ context.Context, _ int64, _ string, _ string, capacity int) (int, error) {
	if capacity <= 1 {
		return 0, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	// 30% empty, 25% one or two in, 30% one short of capacity, 15% full.
	switch roll := d.rnd.Intn(100); {
	case roll < 30:
		return 0, nil
	case roll < 55:
		n := 1 + d.rnd.Intn(2)
		if n > capacity {
			n = capacity
		}
		return n, nil
	case roll < 85:
		return capacity - 1, nil
	default:
		return capacity, nil
	}
}

var _ OccupancyProvider = (*DemoOccupancy)(nil)
