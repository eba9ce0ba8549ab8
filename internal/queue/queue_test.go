// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package queue

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/models"
)

func newTestQueue() *Queue {
	return New(logger.NewLogger("test"))
}

func queuedItem(id, sessionID, dataType string, ts time.Time) models.SyncItem {
	return models.SyncItem{
		ID:        id,
		DataType:  dataType,
		SessionID: sessionID,
		Payload:   models.Payload{"value": id},
		Timestamp: ts,
	}
}

// ── Enqueue / coalescing ─────────────────────────────────────────────────────

func TestQueue_Enqueue_FreshSlot(t *testing.T) {
	q := newTestQueue()

	prev, accepted := q.Enqueue(queuedItem("item-1", "s1", models.DataTypeMood, time.Now()))
	require.True(t, accepted)
	assert.Empty(t, prev.ID, "free slot must not report a replaced item")
	assert.Equal(t, 1, q.Len())
}

func TestQueue_Enqueue_ReplacesStrictlyNewer(t *testing.T) {
	q := newTestQueue()
	base := time.Now()

	older := queuedItem("item-old", "s1", models.DataTypeMood, base)
	newer := queuedItem("item-new", "s1", models.DataTypeMood, base.Add(time.Second))

	_, accepted := q.Enqueue(older)
	require.True(t, accepted)

	prev, accepted := q.Enqueue(newer)
	require.True(t, accepted)
	assert.Equal(t, "item-old", prev.ID, "replaced item must be reported for durable cleanup")
	assert.Equal(t, 1, q.Len())

	_, ok := q.Get("item-old")
	assert.False(t, ok)
	got, ok := q.Get("item-new")
	require.True(t, ok)
	assert.Equal(t, "item-new", got.ID)
}

func TestQueue_Enqueue_DiscardsOlderAndEqual(t *testing.T) {
	q := newTestQueue()
	base := time.Now()

	held := queuedItem("item-held", "s1", models.DataTypeMood, base)
	_, accepted := q.Enqueue(held)
	require.True(t, accepted)

	// более старый отбрасывается
	prev, accepted := q.Enqueue(queuedItem("item-stale", "s1", models.DataTypeMood, base.Add(-time.Second)))
	assert.False(t, accepted)
	assert.Equal(t, "item-held", prev.ID)

	// равный timestamp тоже отбрасывается: замена только строго новее
	prev, accepted = q.Enqueue(queuedItem("item-tie", "s1", models.DataTypeMood, base))
	assert.False(t, accepted)
	assert.Equal(t, "item-held", prev.ID)

	assert.Equal(t, 1, q.Len())
}

func TestQueue_Enqueue_SeparateSlotsDoNotCoalesce(t *testing.T) {
	q := newTestQueue()
	now := time.Now()

	// разные dataType и разные sessionID — отдельные слоты
	_, accepted := q.Enqueue(queuedItem("a", "s1", models.DataTypeMood, now))
	require.True(t, accepted)
	_, accepted = q.Enqueue(queuedItem("b", "s1", models.DataTypeSDOH, now))
	require.True(t, accepted)
	_, accepted = q.Enqueue(queuedItem("c", "s2", models.DataTypeMood, now))
	require.True(t, accepted)

	assert.Equal(t, 3, q.Len())
}

// Серия быстрых перезаписей одного слота схлопывается в последний снимок.
func TestQueue_Enqueue_RapidRewritesCollapse(t *testing.T) {
	q := newTestQueue()
	base := time.Now()

	for i := 0; i < 5; i++ {
		item := queuedItem(fmt.Sprintf("item-%d", i), "s1", models.DataTypeMood,
			base.Add(time.Duration(i)*time.Millisecond))
		_, accepted := q.Enqueue(item)
		require.True(t, accepted)
	}

	require.Equal(t, 1, q.Len())
	items := q.Peek()
	require.Len(t, items, 1)
	assert.Equal(t, "item-4", items[0].ID, "slot must hold the newest snapshot")
}

// ── Peek / PeekRecent ────────────────────────────────────────────────────────

func TestQueue_Peek_OrderedByTimestamp(t *testing.T) {
	q := newTestQueue()
	base := time.Now()

	q.Enqueue(queuedItem("newest", "s1", models.DataTypeMood, base.Add(2*time.Second)))
	q.Enqueue(queuedItem("oldest", "s2", models.DataTypeMood, base))
	q.Enqueue(queuedItem("middle", "s3", models.DataTypeMood, base.Add(time.Second)))

	items := q.Peek()
	require.Len(t, items, 3)
	assert.Equal(t, "oldest", items[0].ID)
	assert.Equal(t, "middle", items[1].ID)
	assert.Equal(t, "newest", items[2].ID)
}

func TestQueue_PeekRecent_FiltersByAgeAndLimit(t *testing.T) {
	q := newTestQueue()
	now := time.Now()

	q.Enqueue(queuedItem("ancient", "s1", models.DataTypeMood, now.Add(-10*time.Minute)))
	q.Enqueue(queuedItem("recent-1", "s2", models.DataTypeMood, now.Add(-4*time.Minute)))
	q.Enqueue(queuedItem("recent-2", "s3", models.DataTypeMood, now.Add(-2*time.Minute)))
	q.Enqueue(queuedItem("recent-3", "s4", models.DataTypeMood, now.Add(-1*time.Minute)))
	q.Enqueue(queuedItem("recent-4", "s5", models.DataTypeMood, now.Add(-30*time.Second)))

	items := q.PeekRecent(5*time.Minute, 3, now)
	require.Len(t, items, 3, "batch limit must cap the quick drain")
	// старые внутри окна идут первыми
	assert.Equal(t, "recent-1", items[0].ID)
	assert.Equal(t, "recent-2", items[1].ID)
	assert.Equal(t, "recent-3", items[2].ID)

	for _, item := range items {
		assert.NotEqual(t, "ancient", item.ID, "items past the age threshold wait for the full drain")
	}
}

func TestQueue_PeekRecent_EmptyWindow(t *testing.T) {
	q := newTestQueue()
	now := time.Now()

	q.Enqueue(queuedItem("old", "s1", models.DataTypeMood, now.Add(-time.Hour)))

	assert.Empty(t, q.PeekRecent(5*time.Minute, 3, now))
}

// ── Remove / Rebuild ─────────────────────────────────────────────────────────

func TestQueue_Remove_FreesSlot(t *testing.T) {
	q := newTestQueue()
	base := time.Now()

	q.Enqueue(queuedItem("item-1", "s1", models.DataTypeMood, base))
	require.True(t, q.Remove("item-1"))
	assert.False(t, q.Remove("item-1"), "second remove must report absence")
	assert.Equal(t, 0, q.Len())

	// слот освобождён: даже более старый снимок снова принимается
	_, accepted := q.Enqueue(queuedItem("item-2", "s1", models.DataTypeMood, base.Add(-time.Minute)))
	assert.True(t, accepted)
}

func TestQueue_Rebuild_CoalescesListing(t *testing.T) {
	q := newTestQueue()
	base := time.Now()

	// предварительно заполняем, Rebuild должен всё сбросить
	q.Enqueue(queuedItem("leftover", "s9", models.DataTypeMood, base))

	q.Rebuild([]models.SyncItem{
		queuedItem("dup-new", "s1", models.DataTypeMood, base.Add(time.Second)),
		queuedItem("dup-old", "s1", models.DataTypeMood, base),
		queuedItem("other", "s2", models.DataTypeSDOH, base),
	})

	require.Equal(t, 2, q.Len())
	_, ok := q.Get("leftover")
	assert.False(t, ok, "rebuild must reset previous contents")
	_, ok = q.Get("dup-old")
	assert.False(t, ok, "duplicate slots collapse to the newest item")
	_, ok = q.Get("dup-new")
	assert.True(t, ok)
}
