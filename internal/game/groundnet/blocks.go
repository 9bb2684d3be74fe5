package groundnet

import (
	"slices"
	"time"

	"atc-ground/pkg/types"
)

// BLOCK_EXPIRY is how long a reservation survives without being refreshed.
const BLOCK_EXPIRY = 30 * time.Second

// Block is one aircraft's reservation of a segment. It becomes active once
// BlockTime has passed; Touched is the last time the owner refreshed it.
type Block struct {
	ID        types.AircraftID
	BlockTime time.Time
	Touched   time.Time
}

// Block reserves the segment for id from blockTime on. An existing
// reservation by the same aircraft keeps the earlier of the two block times
// and is touched at now.
func (s *Segment) Block(id types.AircraftID, blockTime, now time.Time) {
	for i := range s.blocks {
		if s.blocks[i].ID == id {
			if blockTime.Before(s.blocks[i].BlockTime) {
				s.blocks[i].BlockTime = blockTime
			}
			s.blocks[i].Touched = now
			s.sortBlocks()
			return
		}
	}
	s.blocks = append(s.blocks, Block{ID: id, BlockTime: blockTime, Touched: now})
	s.sortBlocks()
}

func (s *Segment) sortBlocks() {
	slices.SortStableFunc(s.blocks, func(a, b Block) int {
		return a.BlockTime.Compare(b.BlockTime)
	})
}

// HasBlock reports whether any reservation has become active, i.e. its
// block time lies strictly before now.
func (s *Segment) HasBlock(now time.Time) bool {
	for _, b := range s.blocks {
		if b.BlockTime.Before(now) {
			return true
		}
	}
	return false
}

// Unblock drops the oldest reservation once it has gone untouched for more
// than BLOCK_EXPIRY. At most one reservation is shed per call.
func (s *Segment) Unblock(now time.Time) {
	if len(s.blocks) == 0 {
		return
	}
	if s.blocks[0].Touched.Before(now.Add(-BLOCK_EXPIRY)) {
		s.blocks = s.blocks[1:]
	}
}

// Blocks returns a copy of the segment's reservations ordered by block time.
func (s *Segment) Blocks() []Block {
	return slices.Clone(s.blocks)
}

func (s *Segment) ClearBlocks() {
	s.blocks = nil
}

// UnblockAllSegments ages out stale reservations across the network. The
// ground controller calls it once per tick.
func (n *Network) UnblockAllSegments(now time.Time) {
	for _, s := range n.segments {
		s.Unblock(now)
	}
}

// BlockSegmentsEndingAt reserves every other segment converging on seg's end
// node, so that nobody else enters the junction seg leads into.
func (n *Network) BlockSegmentsEndingAt(seg *Segment, id types.AircraftID, blockTime, now time.Time) {
	if seg == nil {
		panic("groundnet: BlockSegmentsEndingAt called with nil segment")
	}
	n.mustBeInitialized("BlockSegmentsEndingAt")

	for _, idx := range n.segmentsEndingAt[seg.End] {
		if idx == seg.Index {
			continue
		}
		n.segments[idx-1].Block(id, blockTime, now)
	}
}
