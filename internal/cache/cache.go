package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Aniket19c/FundooNotes/internal/dto"
	"github.com/Aniket19c/FundooNotes/internal/models"
	"github.com/Aniket19c/FundooNotes/pkg/logger"
)

// TTLs. Explicit invalidation on every mutation path is the correctness
// mechanism; expiry only bounds staleness when an invalidation was lost.
const (
	NoteTTL      = 5 * time.Minute
	AggregateTTL = 10 * time.Minute
	LabelListTTL = 10 * time.Minute
)

// opTimeout bounds every cache call so an unavailable Redis never stalls a
// request.
const opTimeout = 500 * time.Millisecond

// Service is the read-through accelerator in front of the note store. It is
// never authoritative: every method degrades to a miss on error.
type Service struct {
	client *redis.Client
}

func New(addr, password string, db int) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Service{client: client}, nil
}

// NewFromClient wraps an existing client. Used by tests.
func NewFromClient(client *redis.Client) *Service {
	return &Service{client: client}
}

// Key builders. The single-note key is deliberately per-viewer: the same note
// is cached independently for every user allowed to see it, so removing a
// collaborator only has to clear that viewer's entry.

func NoteKey(noteID, userID uuid.UUID) string {
	return fmt.Sprintf("note:%s:%s", noteID, userID)
}

func UserNotesKey(userID uuid.UUID) string {
	return fmt.Sprintf("notes:%s", userID)
}

func CollaboratorsKey(noteID uuid.UUID) string {
	return fmt.Sprintf("collaborators:%s", noteID)
}

func LabelsKey(userID uuid.UUID) string {
	return fmt.Sprintf("labels:%s", userID)
}

// GetNote returns the per-viewer cached note, or (nil, false) on miss or any
// cache error.
func (s *Service) GetNote(ctx context.Context, noteID, userID uuid.UUID) (*models.Note, bool) {
	var note models.Note
	if !s.getJSON(ctx, NoteKey(noteID, userID), &note) {
		return nil, false
	}
	return &note, true
}

// SetNote caches a note under the viewer's key.
func (s *Service) SetNote(ctx context.Context, note *models.Note, userID uuid.UUID) {
	s.setJSON(ctx, NoteKey(note.ID, userID), note, NoteTTL)
}

func (s *Service) GetNoteList(ctx context.Context, userID uuid.UUID) ([]dto.NoteView, bool) {
	var views []dto.NoteView
	if !s.getJSON(ctx, UserNotesKey(userID), &views) {
		return nil, false
	}
	return views, true
}

func (s *Service) SetNoteList(ctx context.Context, userID uuid.UUID, views []dto.NoteView) {
	s.setJSON(ctx, UserNotesKey(userID), views, AggregateTTL)
}

func (s *Service) GetCollaborators(ctx context.Context, noteID uuid.UUID) ([]dto.CollaboratorView, bool) {
	var views []dto.CollaboratorView
	if !s.getJSON(ctx, CollaboratorsKey(noteID), &views) {
		return nil, false
	}
	return views, true
}

func (s *Service) SetCollaborators(ctx context.Context, noteID uuid.UUID, views []dto.CollaboratorView) {
	s.setJSON(ctx, CollaboratorsKey(noteID), views, AggregateTTL)
}

func (s *Service) GetLabels(ctx context.Context, userID uuid.UUID) ([]dto.LabelView, bool) {
	var views []dto.LabelView
	if !s.getJSON(ctx, LabelsKey(userID), &views) {
		return nil, false
	}
	return views, true
}

func (s *Service) SetLabels(ctx context.Context, userID uuid.UUID, views []dto.LabelView) {
	s.setJSON(ctx, LabelsKey(userID), views, LabelListTTL)
}

// Invalidate removes the given keys. Failures are logged and swallowed: the
// backing store write has already committed, so a missed invalidation is left
// to expire by TTL rather than failing the mutation.
func (s *Service) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed, falling back to TTL expiry")
	}
}

func (s *Service) getJSON(ctx context.Context, key string, dest interface{}) bool {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("corrupt cache entry")
		return false
	}
	return true
}

func (s *Service) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// Close closes the underlying Redis connection.
func (s *Service) Close() error {
	return s.client.Close()
}
