package telemetry

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/s-martin/shinysdr/internal/cells"
)

// Index is the registry of live tracked objects. It routes messages to
// objects (creating them on first sighting), drops objects that have not
// been heard from past their expiry, and publishes per-capability membership
// through cells so consumers re-render when the set changes.
type Index struct {
	mu      sync.Mutex
	objects map[string]Object
	byCap   map[string]*cells.Cell[[]Object]
	lastIDs map[string][]string
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		objects: make(map[string]Object),
		byCap:   make(map[string]*cells.Cell[[]Object]),
		lastIDs: make(map[string][]string),
	}
}

// Receive routes one message to its object, constructing the object if this
// is the first sighting of its ID.
func (ix *Index) Receive(msg Message) {
	ix.mu.Lock()
	id := msg.ObjectID()
	obj, ok := ix.objects[id]
	if !ok {
		obj = msg.NewObject()
		ix.objects[id] = obj
		slog.Debug("telemetry object created", "object_id", id)
	}
	ix.mu.Unlock()

	obj.Receive(msg)

	ix.mu.Lock()
	ix.publishLocked()
	ix.mu.Unlock()
}

// Implementing returns the cell holding all interesting objects that
// advertise the given capability, ordered by object ID. The cell is created
// on first use and updated as membership changes.
func (ix *Index) Implementing(capability string) *cells.Cell[[]Object] {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.capCellLocked(capability)
}

// Sweep drops every object whose expiry is at or before now and returns the
// number dropped.
func (ix *Index) Sweep(now time.Time) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	dropped := 0
	for id, obj := range ix.objects {
		if !obj.ExpiresAt().After(now) {
			delete(ix.objects, id)
			dropped++
			slog.Debug("telemetry object expired", "object_id", id)
		}
	}
	if dropped > 0 {
		ix.publishLocked()
	}
	return dropped
}

// Len returns the number of live objects, interesting or not.
func (ix *Index) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.objects)
}

func (ix *Index) capCellLocked(capability string) *cells.Cell[[]Object] {
	cell, ok := ix.byCap[capability]
	if !ok {
		cell = cells.NewCell[[]Object](nil)
		ix.byCap[capability] = cell
		ids, members := ix.membersLocked(capability)
		ix.lastIDs[capability] = ids
		cell.Set(members)
	}
	return cell
}

// publishLocked refreshes every capability cell whose membership changed.
func (ix *Index) publishLocked() {
	for capability, cell := range ix.byCap {
		ids, members := ix.membersLocked(capability)
		if equalIDs(ids, ix.lastIDs[capability]) {
			continue
		}
		ix.lastIDs[capability] = ids
		cell.Set(members)
	}
}

func (ix *Index) membersLocked(capability string) ([]string, []Object) {
	var ids []string
	for id, obj := range ix.objects {
		if !obj.IsInteresting() {
			continue
		}
		for _, c := range obj.Capabilities() {
			if c == capability {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Strings(ids)
	members := make([]Object, len(ids))
	for i, id := range ids {
		members[i] = ix.objects[id]
	}
	return ids, members
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
