package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aniket19c/FundooNotes/internal/cache"
	"github.com/Aniket19c/FundooNotes/internal/events"
)

func TestCollaboratorAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("grants access to the note", func(t *testing.T) {
		env := newTestEnv(t)
		owner := uuid.New()
		note := env.createNote(t, owner, "shared")
		friendID := env.addUser("friend@mail.test")

		resp := env.collabs.Add(ctx, note.ID, owner, "friend@mail.test")
		require.True(t, resp.Success)
		assert.Equal(t, "Collaborator added successfully", resp.Message)
		require.NotNil(t, resp.Data)
		assert.Equal(t, friendID, resp.Data.UserID)
		assert.Equal(t, "friend@mail.test", resp.Data.Email)

		assert.True(t, env.notes.Retrieve(ctx, note.ID, friendID).Success)
	})

	t.Run("only the owner may add", func(t *testing.T) {
		env := newTestEnv(t)
		owner := uuid.New()
		note := env.createNote(t, owner, "mine")
		friend := env.share(t, note.ID, owner, "friend@mail.test")
		env.addUser("third@mail.test")

		resp := env.collabs.Add(ctx, note.ID, friend, "third@mail.test")
		require.False(t, resp.Success)
		assert.Equal(t, "Note not found", resp.Message)
	})

	t.Run("unknown email rejected", func(t *testing.T) {
		env := newTestEnv(t)
		owner := uuid.New()
		note := env.createNote(t, owner, "n")

		resp := env.collabs.Add(ctx, note.ID, owner, "nobody@mail.test")
		require.False(t, resp.Success)
		assert.Equal(t, "Collaborator not found", resp.Message)
	})

	t.Run("duplicate add rejected", func(t *testing.T) {
		env := newTestEnv(t)
		owner := uuid.New()
		note := env.createNote(t, owner, "n")
		env.share(t, note.ID, owner, "friend@mail.test")

		resp := env.collabs.Add(ctx, note.ID, owner, "friend@mail.test")
		require.False(t, resp.Success)
		assert.Equal(t, "Collaborator is already added to this note", resp.Message)

		rows, err := env.collabRepo.ListByNote(note.ID)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("clears the new collaborator's aggregate", func(t *testing.T) {
		env := newTestEnv(t)
		owner := uuid.New()
		note := env.createNote(t, owner, "n")
		friendID := env.addUser("friend@mail.test")

		// Friend's (empty) aggregate is cached before they are added.
		empty := env.notes.RetrieveAll(ctx, friendID)
		require.True(t, empty.Success)
		assert.Empty(t, empty.Data)

		resp := env.collabs.Add(ctx, note.ID, owner, "friend@mail.test")
		require.True(t, resp.Success)
		assert.False(t, env.redis.Exists(cache.UserNotesKey(friendID)))

		list := env.notes.RetrieveAll(ctx, friendID)
		require.True(t, list.Success)
		require.Len(t, list.Data, 1)
	})
}

func TestCollaboratorRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes access immediately", func(t *testing.T) {
		env := newTestEnv(t)
		owner := uuid.New()
		note := env.createNote(t, owner, "shared then not")
		friend := env.share(t, note.ID, owner, "friend@mail.test")

		// Warm the soon-to-be-removed viewer's cache.
		require.True(t, env.notes.Retrieve(ctx, note.ID, friend).Success)

		resp := env.collabs.Remove(ctx, note.ID, owner, "friend@mail.test")
		require.True(t, resp.Success)
		assert.Equal(t, "Collaborator removed successfully", resp.Message)

		// A cached entry must not outlive the membership.
		assert.False(t, env.redis.Exists(cache.NoteKey(note.ID, friend)))
		denied := env.notes.Retrieve(ctx, note.ID, friend)
		require.False(t, denied.Success)
		assert.Equal(t, "Note not found", denied.Message)
	})

	t.Run("unknown collaborator", func(t *testing.T) {
		env := newTestEnv(t)
		owner := uuid.New()
		note := env.createNote(t, owner, "n")

		resp := env.collabs.Remove(ctx, note.ID, owner, "nobody@mail.test")
		require.False(t, resp.Success)
		assert.Equal(t, "Collaborator not found", resp.Message)
	})

	t.Run("publishes the removal", func(t *testing.T) {
		env := newTestEnv(t)
		owner := uuid.New()
		note := env.createNote(t, owner, "n")
		friend := env.share(t, note.ID, owner, "friend@mail.test")

		env.collabs.Remove(ctx, note.ID, owner, "friend@mail.test")

		last := env.publisher.published[len(env.publisher.published)-1]
		assert.Equal(t, events.CollaboratorRemoved, last.EventType)
		assert.Equal(t, friend.String(), last.TargetUserID)
	})
}

func TestCollaboratorList(t *testing.T) {
	ctx := context.Background()

	t.Run("visible to owner and collaborators", func(t *testing.T) {
		env := newTestEnv(t)
		owner := uuid.New()
		note := env.createNote(t, owner, "n")
		a := env.share(t, note.ID, owner, "a@mail.test")
		b := env.share(t, note.ID, owner, "b@mail.test")

		byOwner := env.collabs.List(ctx, note.ID, owner)
		require.True(t, byOwner.Success)
		require.Len(t, byOwner.Data, 2)

		byMember := env.collabs.List(ctx, note.ID, a)
		require.True(t, byMember.Success)
		ids := []uuid.UUID{byMember.Data[0].UserID, byMember.Data[1].UserID}
		assert.Contains(t, ids, a)
		assert.Contains(t, ids, b)
	})

	t.Run("hidden from strangers", func(t *testing.T) {
		env := newTestEnv(t)
		owner := uuid.New()
		note := env.createNote(t, owner, "n")
		env.share(t, note.ID, owner, "a@mail.test")

		resp := env.collabs.List(ctx, note.ID, uuid.New())
		require.False(t, resp.Success)
		assert.Equal(t, "Note not found", resp.Message)
	})

	t.Run("read-through on the collaborators key", func(t *testing.T) {
		env := newTestEnv(t)
		owner := uuid.New()
		note := env.createNote(t, owner, "n")
		env.share(t, note.ID, owner, "a@mail.test")

		first := env.collabs.List(ctx, note.ID, owner)
		require.True(t, first.Success)
		assert.True(t, env.redis.Exists(cache.CollaboratorsKey(note.ID)))

		// Adding another member invalidates the cached list.
		env.share(t, note.ID, owner, "b@mail.test")
		assert.False(t, env.redis.Exists(cache.CollaboratorsKey(note.ID)))

		second := env.collabs.List(ctx, note.ID, owner)
		require.Len(t, second.Data, 2)
	})
}

// Full sharing lifecycle: grant, observe an edit, revoke.
func TestSharingLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := uuid.New()
	note := env.createNote(t, owner, "Groceries")
	noteID := note.ID

	friend := env.share(t, noteID, owner, "friend@mail.test")

	seen := env.notes.Retrieve(ctx, noteID, friend)
	require.True(t, seen.Success)
	assert.Equal(t, "Groceries", seen.Data.Title)

	renamed := env.notes.Update(ctx, noteID, owner, "Groceries v2", "")
	require.True(t, renamed.Success)

	seen = env.notes.Retrieve(ctx, noteID, friend)
	require.True(t, seen.Success)
	assert.Equal(t, "Groceries v2", seen.Data.Title)

	removed := env.collabs.Remove(ctx, noteID, owner, "friend@mail.test")
	require.True(t, removed.Success)

	denied := env.notes.Retrieve(ctx, noteID, friend)
	require.False(t, denied.Success)
	assert.Equal(t, "Note not found", denied.Message)
}
