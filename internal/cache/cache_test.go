package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aniket19c/FundooNotes/internal/dto"
	"github.com/Aniket19c/FundooNotes/internal/models"
)

func newTestCache(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestNoteRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	viewer := uuid.New()
	note := &models.Note{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Title:   "cached",
		Pinned:  true,
	}

	_, ok := c.GetNote(ctx, note.ID, viewer)
	assert.False(t, ok)

	c.SetNote(ctx, note, viewer)

	got, ok := c.GetNote(ctx, note.ID, viewer)
	require.True(t, ok)
	assert.Equal(t, note.ID, got.ID)
	assert.Equal(t, "cached", got.Title)
	assert.True(t, got.Pinned)

	assert.Equal(t, NoteTTL, mr.TTL(NoteKey(note.ID, viewer)))
}

func TestPerViewerIsolation(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	note := &models.Note{ID: uuid.New(), OwnerID: uuid.New()}
	alice := uuid.New()
	bob := uuid.New()

	c.SetNote(ctx, note, alice)

	_, ok := c.GetNote(ctx, note.ID, bob)
	assert.False(t, ok, "one viewer's entry must not answer for another")

	_, ok = c.GetNote(ctx, note.ID, alice)
	assert.True(t, ok)
}

func TestAggregateTTLs(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	userID := uuid.New()
	noteID := uuid.New()

	c.SetNoteList(ctx, userID, []dto.NoteView{{ID: noteID, Title: "n"}})
	c.SetCollaborators(ctx, noteID, []dto.CollaboratorView{{UserID: userID}})
	c.SetLabels(ctx, userID, []dto.LabelView{{ID: uuid.New(), Name: "l"}})

	assert.Equal(t, AggregateTTL, mr.TTL(UserNotesKey(userID)))
	assert.Equal(t, AggregateTTL, mr.TTL(CollaboratorsKey(noteID)))
	assert.Equal(t, LabelListTTL, mr.TTL(LabelsKey(userID)))
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	viewer := uuid.New()
	note := &models.Note{ID: uuid.New(), OwnerID: viewer}
	c.SetNote(ctx, note, viewer)
	c.SetNoteList(ctx, viewer, []dto.NoteView{{ID: note.ID}})

	c.Invalidate(ctx, NoteKey(note.ID, viewer), UserNotesKey(viewer))

	assert.False(t, mr.Exists(NoteKey(note.ID, viewer)))
	assert.False(t, mr.Exists(UserNotesKey(viewer)))

	// No-ops are fine.
	c.Invalidate(ctx)
	c.Invalidate(ctx, "never-set")
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	viewer := uuid.New()
	noteID := uuid.New()
	require.NoError(t, mr.Set(NoteKey(noteID, viewer), "{not json"))

	_, ok := c.GetNote(ctx, noteID, viewer)
	assert.False(t, ok)
}

func TestUnavailableRedisDegradesToMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	viewer := uuid.New()
	note := &models.Note{ID: uuid.New(), OwnerID: viewer}
	c.SetNote(ctx, note, viewer)

	mr.Close()

	_, ok := c.GetNote(ctx, note.ID, viewer)
	assert.False(t, ok)

	// Writes and invalidations must not panic or block.
	done := make(chan struct{})
	go func() {
		c.SetNote(ctx, note, viewer)
		c.Invalidate(ctx, NoteKey(note.ID, viewer))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("cache operations blocked on unavailable redis")
	}
}

func TestKeyShapes(t *testing.T) {
	noteID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	userID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	assert.Equal(t, "note:11111111-1111-1111-1111-111111111111:22222222-2222-2222-2222-222222222222", NoteKey(noteID, userID))
	assert.Equal(t, "notes:22222222-2222-2222-2222-222222222222", UserNotesKey(userID))
	assert.Equal(t, "collaborators:11111111-1111-1111-1111-111111111111", CollaboratorsKey(noteID))
	assert.Equal(t, "labels:22222222-2222-2222-2222-222222222222", LabelsKey(userID))
}
