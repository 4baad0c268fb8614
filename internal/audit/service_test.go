package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/listview"
	"github.com/evolutionflow/admin-bff/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(&Entry{}))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestService(t *testing.T, repo Repository, c *clock) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Logger: logger.Nop(), PageSize: 10, Now: c.Now})
	require.NoError(t, err)
	return svc
}

func TestRecordPersistsActorAndOutcome(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(t, NewRepository(newTestDB(t)), c)

	ctx := WithActor(context.Background(), Actor{ID: "42", Email: "admin@evolutionflow.kr"})
	svc.Record(ctx, Event{Resource: ResourceMember, ResourceID: "7", Action: enums.AuditActionStatusChange, From: "active", To: "suspended"})
	c.now = c.now.Add(time.Minute)
	svc.Record(ctx, Event{Resource: ResourceWorkshop, ResourceID: "3", Action: enums.AuditActionStatusChange, From: "draft", To: "open", Err: errors.New("backend unavailable")})

	rows, err := svc.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, ResourceWorkshop, rows[0].Resource, "newest first")
	assert.Equal(t, enums.AuditOutcomeFailure, rows[0].Outcome)
	assert.Equal(t, "backend unavailable", rows[0].Error)
	assert.Equal(t, enums.AuditOutcomeSuccess, rows[1].Outcome)
	assert.Equal(t, "admin@evolutionflow.kr", rows[1].ActorEmail)
	assert.Equal(t, "suspended", rows[1].ToValue)
}

func TestListAppliesPipeline(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(t, NewRepository(newTestDB(t)), c)
	ctx := WithActor(context.Background(), Actor{ID: "1", Email: "kim@evolutionflow.kr"})

	for i := 0; i < 12; i++ {
		c.now = c.now.Add(time.Minute)
		svc.Record(ctx, Event{Resource: ResourceStudio, ResourceID: "s", Action: enums.AuditActionUpdate})
	}
	svc.Record(ctx, Event{Resource: ResourceContact, ResourceID: "c1", Action: enums.AuditActionStatusChange})

	res, err := svc.List(context.Background(), listview.Query{Filters: map[string]string{"resource": ResourceStudio}, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 12, res.Total)
	assert.Equal(t, 2, res.TotalPages)
	assert.Len(t, res.Items, 2)

	res, err = svc.List(context.Background(), listview.Query{Search: "C1"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, ResourceContact, res.Items[0].Resource)
}

func TestPurgeDeletesOldEntries(t *testing.T) {
	c := &clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc := newTestService(t, NewRepository(newTestDB(t)), c)

	svc.Record(context.Background(), Event{Resource: ResourceMember, ResourceID: "old", Action: enums.AuditActionDelete})
	c.now = c.now.Add(200 * 24 * time.Hour)
	svc.Record(context.Background(), Event{Resource: ResourceMember, ResourceID: "new", Action: enums.AuditActionDelete})

	deleted, err := svc.Purge(context.Background(), 180*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	rows, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "new", rows[0].ResourceID)

	_, err = svc.Purge(context.Background(), 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

type failingRepo struct{}

func (failingRepo) Create(context.Context, *Entry) error { return errors.New("db down") }
func (failingRepo) ListRecent(context.Context, int) ([]Entry, error) {
	return nil, errors.New("db down")
}
func (failingRepo) DeleteBefore(context.Context, time.Time) (int64, error) {
	return 0, errors.New("db down")
}

func TestRecordFailureIsSwallowed(t *testing.T) {
	svc := newTestService(t, failingRepo{}, &clock{now: time.Now()})
	assert.NotPanics(t, func() {
		svc.Record(context.Background(), Event{Resource: ResourceMember, ResourceID: "1", Action: enums.AuditActionUpdate})
	})

	_, err := svc.List(context.Background(), listview.Query{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{Logger: logger.Nop()})
	assert.Error(t, err)
	_, err = NewService(ServiceParams{Repo: failingRepo{}})
	assert.Error(t, err)
}

func TestActorFromContextDefaultsToZero(t *testing.T) {
	assert.Equal(t, Actor{}, ActorFromContext(context.Background()))
}
