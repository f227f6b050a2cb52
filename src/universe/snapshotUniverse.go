package universe

import (
	"sync/atomic"

	"evolife/src/world"
)

/*
	Universe implementation with a published snapshot
	after every tick (and reset) a complete copy of the field is built and swapped in atomically
	observers read the last published copy and never wait for the field lock while a tick is running
*/
type SnapshotUniverse struct {
	*BaseUniverse
	published atomic.Value
}

func NewSnapshotUniverse(field *world.Field, o *Options, stateCh chan Status) Universe {
	su := SnapshotUniverse{BaseUniverse: NewBaseUniverse(field, o, stateCh)}
	su.published.Store(field.Snapshot())
	//redefine how snapshots are produced and read
	su.BaseUniverse.publish = su.publish
	su.BaseUniverse.snapshot = su.snapshot
	su.options.Lock()
	su.options.Engine = "snapshot"
	su.options.Unlock()
	return &su
}

func (su *SnapshotUniverse) publish() {
	su.published.Store(su.field.Snapshot())
}

func (su *SnapshotUniverse) snapshot() world.Snapshot {
	return su.published.Load().(world.Snapshot)
}
