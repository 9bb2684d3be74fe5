package groundnet

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/labstack/gommon/log"
	"github.com/paulmach/orb"
	"github.com/vmihailenco/msgpack/v5"
)

const snapshotVersion = 1

type snapshotNode struct {
	Index        int
	Lon, Lat     float64
	OnRunway     bool
	HoldType     int
	Parking      *Parking
	Elevation    float64
	HasElevation bool
}

type snapshotSegment struct {
	Start, End int
}

type snapshot struct {
	Version  int
	Airport  string
	Nodes    []snapshotNode
	Segments []snapshotSegment
}

// WriteSnapshot stores the materialized graph (nodes, segments, cached
// elevations) as zstd-compressed msgpack. Reservations are not saved.
func WriteSnapshot(w io.Writer, n *Network) error {
	s := snapshot{Version: snapshotVersion, Airport: n.Airport}
	for _, node := range n.nodes {
		s.Nodes = append(s.Nodes, snapshotNode{
			Index:        node.Index,
			Lon:          node.Position.Lon(),
			Lat:          node.Position.Lat(),
			OnRunway:     node.OnRunway,
			HoldType:     node.HoldType,
			Parking:      node.Parking,
			Elevation:    node.elevation,
			HasElevation: node.hasElevation,
		})
	}
	for _, seg := range n.segments {
		s.Segments = append(s.Segments, snapshotSegment{Start: seg.Start, End: seg.End})
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(zw).Encode(&s); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ReadSnapshot rebuilds a network written by WriteSnapshot. The returned
// network has already been initialized.
func ReadSnapshot(r io.Reader, lg *log.Logger) (*Network, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var s snapshot
	if err := msgpack.NewDecoder(zr).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding ground network snapshot: %w", err)
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("version %d: %w", s.Version, ErrSnapshotVersion)
	}

	n := NewNetwork(s.Airport, lg)
	for _, sn := range s.Nodes {
		node := NewNode(sn.Index, orb.Point{sn.Lon, sn.Lat}, sn.OnRunway, sn.HoldType)
		node.Parking = sn.Parking
		if sn.HasElevation {
			node.SetElevation(sn.Elevation)
		}
		if err := n.AddNode(node); err != nil {
			return nil, err
		}
	}
	for _, ss := range s.Segments {
		if err := n.AddSegment(ss.Start, ss.End); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSnapshotSegments, err)
		}
	}
	n.Init()
	return n, nil
}
