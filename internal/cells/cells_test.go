package cells

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_GetAndSet(t *testing.T) {
	c := NewCell(41)

	assert.Equal(t, 41, c.Get())

	c.Set(42)
	assert.Equal(t, 42, c.Get())
}

func TestCell_DependFiresOnSet(t *testing.T) {
	c := NewCell("a")

	notified := 0
	d := NewDirty(func() { notified++ })

	got := c.Depend(d)
	assert.Equal(t, "a", got)
	assert.False(t, d.IsDirty())

	c.Set("b")
	assert.True(t, d.IsDirty())
	assert.Equal(t, 1, notified)
}

func TestCell_SubscriptionIsOneShot(t *testing.T) {
	c := NewCell(1)

	notified := 0
	d := NewDirty(func() { notified++ })
	c.Depend(d)

	c.Set(2)
	c.Set(3)

	// Only the first write fires; the reader must re-depend.
	assert.Equal(t, 1, notified)
}

func TestCell_TokenSharedAcrossCells(t *testing.T) {
	a := NewCell(1)
	b := NewCell(2)

	notified := 0
	d := NewDirty(func() { notified++ })
	a.Depend(d)
	b.Depend(d)

	a.Set(10)
	b.Set(20)

	// One render pass, one wake-up, however many cells changed.
	assert.Equal(t, 1, notified)
}

func TestCell_NilTokenBehavesLikeGet(t *testing.T) {
	c := NewCell(7)

	require.NotPanics(t, func() {
		assert.Equal(t, 7, c.Depend(nil))
	})
}

func TestDirty_MarkDirtyIdempotent(t *testing.T) {
	notified := 0
	d := NewDirty(func() { notified++ })

	d.MarkDirty()
	d.MarkDirty()

	assert.True(t, d.IsDirty())
	assert.Equal(t, 1, notified)
}

func TestDirty_NilNotify(t *testing.T) {
	d := NewDirty(nil)
	require.NotPanics(t, d.MarkDirty)
	assert.True(t, d.IsDirty())
}
