package dispatch

import (
	"container/heap"
	"context"

	"github.com/leandrodaf/midiplay/sdk/contracts"
)

// head is the next unplayed event of one track.
type head struct {
	track int
	pos   int
	tick  uint64 // Absolute tick of the event at pos.
}

// headQueue orders track heads by absolute tick, then by track index.
type headQueue []head

func (q headQueue) Len() int { return len(q) }
func (q headQueue) Less(i, j int) bool {
	if q[i].tick != q[j].tick {
		return q[i].tick < q[j].tick
	}
	return q[i].track < q[j].track
}
func (q headQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *headQueue) Push(x interface{}) { *q = append(*q, x.(head)) }
func (q *headQueue) Pop() interface{} {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

// playMerged plays all tracks on one timeline ordered by absolute tick.
// Events at the same tick keep track order, then file order.
func (d *Dispatcher) playMerged(ctx context.Context, tracks []contracts.Track) error {
	q := make(headQueue, 0, len(tracks))
	for i, track := range tracks {
		if len(track) > 0 {
			q = append(q, head{track: i, tick: uint64(track[0].Delta)})
		}
	}
	heap.Init(&q)

	cur := d.newCursor()
	for q.Len() > 0 {
		h := q[0]
		ev := tracks[h.track][h.pos]

		if err := d.step(ctx, cur, uint32(h.tick-cur.tick), h.track, h.pos, ev); err != nil {
			return err
		}

		if next := h.pos + 1; next < len(tracks[h.track]) {
			q[0] = head{track: h.track, pos: next, tick: h.tick + uint64(tracks[h.track][next].Delta)}
			heap.Fix(&q, 0)
		} else {
			heap.Pop(&q)
		}
	}
	return nil
}
