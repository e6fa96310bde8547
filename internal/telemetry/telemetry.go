// Package telemetry holds the tracked-object model shared by the console's
// data sources: the Track record sampled from position reports, the message
// interface sources feed into the index, and the index itself, which owns
// object lifecycle and capability lookup.
package telemetry

import "time"

// Item is one sampled telemetry value and the time it was heard. The zero
// value means "never heard".
type Item struct {
	Value float64
	Time  time.Time
	Valid bool
}

// MakeItem builds a valid item.
func MakeItem(value float64, t time.Time) Item {
	return Item{Value: value, Time: t, Valid: true}
}

// Track is the kinematic state of one tracked object. Every field is
// independently optional; an update replaces only the items it has fresh
// data for. All values are SI units (meters, meters/second, degrees).
type Track struct {
	Latitude   Item
	Longitude  Item
	Altitude   Item
	Heading    Item
	TrackAngle Item
	HSpeed     Item
	VSpeed     Item
}

// Message is one decoded report about a tracked object. The index routes it
// to the object with the matching ID, constructing the object on first
// sighting.
type Message interface {
	// ObjectID identifies the tracked object this message is about.
	ObjectID() string
	// NewObject constructs the object that will receive this and all
	// subsequent messages with the same ID.
	NewObject() Object
}

// Object is one live tracked entity owned by the index.
type Object interface {
	// Receive applies one message to the object's state.
	Receive(msg Message)
	// IsInteresting reports whether the object has enough state to be worth
	// surfacing to capability queries.
	IsInteresting() bool
	// ExpiresAt is the instant after which an unheard object is dropped.
	ExpiresAt() time.Time
	// Capabilities lists the capability names the object implements, used
	// for widget and map-layer binding.
	Capabilities() []string
}
