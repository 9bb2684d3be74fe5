package groundnet

import "errors"

var (
	ErrDuplicateNode    = errors.New("duplicate node index")
	ErrUnknownNode      = errors.New("unknown node index")
	ErrNotInitialized   = errors.New("ground network used before Init")
	ErrSnapshotVersion  = errors.New("unsupported ground network snapshot version")
	ErrSnapshotSegments = errors.New("ground network snapshot references a missing node")
)
