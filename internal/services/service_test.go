package services

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Aniket19c/FundooNotes/internal/cache"
	"github.com/Aniket19c/FundooNotes/internal/dto"
	"github.com/Aniket19c/FundooNotes/internal/events"
	"github.com/Aniket19c/FundooNotes/internal/models"
	"github.com/Aniket19c/FundooNotes/internal/repositories"
)

type stubDirectory struct {
	users map[string]*DirectoryUser
}

func (d *stubDirectory) GetUserByEmail(_ context.Context, email string) (*DirectoryUser, error) {
	if u, ok := d.users[email]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

type stubPublisher struct {
	published []*events.NoteEvent
}

func (p *stubPublisher) PublishNoteEvent(_ context.Context, event *events.NoteEvent) error {
	p.published = append(p.published, event)
	return nil
}

type stubImageStore struct {
	uploads map[string][]byte
}

func (s *stubImageStore) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	if s.uploads == nil {
		s.uploads = make(map[string][]byte)
	}
	s.uploads[key] = data
	return "https://blobs.test/" + key, nil
}

type testEnv struct {
	db        *gorm.DB
	redis     *miniredis.Miniredis
	cache     *cache.Service
	notes     *NoteService
	labels    *LabelService
	collabs   *CollaboratorService
	directory *stubDirectory
	publisher *stubPublisher
	images    *stubImageStore

	noteRepo   repositories.NoteRepository
	collabRepo repositories.CollaboratorRepository
	labelRepo  repositories.LabelRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Note{},
		&models.Collaborator{},
		&models.Label{},
		&models.NoteLabel{},
	))

	mr := miniredis.RunT(t)
	cacheSvc := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	noteRepo := repositories.NewNoteRepository(db)
	collabRepo := repositories.NewCollaboratorRepository(db)
	labelRepo := repositories.NewLabelRepository(db)
	resolver := NewResolver(cacheSvc, noteRepo, collabRepo)

	directory := &stubDirectory{users: make(map[string]*DirectoryUser)}
	publisher := &stubPublisher{}
	images := &stubImageStore{}

	return &testEnv{
		db:         db,
		redis:      mr,
		cache:      cacheSvc,
		notes:      NewNoteService(noteRepo, collabRepo, resolver, cacheSvc, publisher, images),
		labels:     NewLabelService(labelRepo, noteRepo, collabRepo, cacheSvc),
		collabs:    NewCollaboratorService(collabRepo, noteRepo, resolver, cacheSvc, directory, publisher),
		directory:  directory,
		publisher:  publisher,
		images:     images,
		noteRepo:   noteRepo,
		collabRepo: collabRepo,
		labelRepo:  labelRepo,
	}
}

// addUser registers an account with the stub directory and returns its id.
func (e *testEnv) addUser(email string) uuid.UUID {
	id := uuid.New()
	e.directory.users[email] = &DirectoryUser{UserID: id, Username: email, Email: email}
	return id
}

// createNote inserts a note through the service and fails the test on error.
func (e *testEnv) createNote(t *testing.T, ownerID uuid.UUID, title string) *dto.NoteView {
	t.Helper()
	resp := e.notes.Create(context.Background(), ownerID, dto.CreateNoteReq{Title: title, Description: "body of " + title})
	require.True(t, resp.Success, resp.Message)
	require.NotNil(t, resp.Data)
	return resp.Data
}

// share grants email's user access to the note via the collaborator service.
func (e *testEnv) share(t *testing.T, noteID, ownerID uuid.UUID, email string) uuid.UUID {
	t.Helper()
	userID := e.addUser(email)
	resp := e.collabs.Add(context.Background(), noteID, ownerID, email)
	require.True(t, resp.Success, resp.Message)
	return userID
}
