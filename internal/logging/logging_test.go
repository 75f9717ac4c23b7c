package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestDBHandler_BuffersErrorsOnly(t *testing.T) {
	db, _ := mockDB(t)
	h := NewDBHandler(db)
	log := slog.New(h).With("request_id", "req-1")

	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	log.Info("ignored")
	log.Error("boom", "error", "disk full", "session_id", "abc")

	assert.Equal(t, 1, h.pending())
	entry := (*h.buffer)[0]
	assert.Equal(t, "boom", entry.Message)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "disk full", entry.Error)
	assert.JSONEq(t, `{"session_id":"abc"}`, string(entry.Extra))
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	log := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	))

	log.Info("hello")
	assert.Contains(t, a.String(), "hello")
	assert.Empty(t, b.String())

	log.Error("bad")
	assert.Contains(t, b.String(), "bad")
}

type failingHandler struct{ err error }

func (f failingHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (f failingHandler) Handle(context.Context, slog.Record) error { return f.err }
func (f failingHandler) WithAttrs([]slog.Attr) slog.Handler        { return f }
func (f failingHandler) WithGroup(string) slog.Handler             { return f }

func TestMultiHandler_KeepsDeliveringPastFailures(t *testing.T) {
	var out bytes.Buffer
	errA, errB := errors.New("buffer full"), errors.New("closed")
	h := NewMultiHandler(
		failingHandler{errA},
		nil,
		slog.NewJSONHandler(&out, nil),
		failingHandler{errB},
	)

	rec := slog.NewRecord(time.Now(), slog.LevelError, "session save failed", 0)
	err := h.Handle(context.Background(), rec)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Contains(t, out.String(), "session save failed")
}

func TestMultiHandler_AttrsAndGroups(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(slog.NewJSONHandler(&a, nil), slog.NewJSONHandler(&b, nil))

	assert.Same(t, h, h.WithGroup(""))
	assert.Same(t, h, h.WithAttrs(nil))

	slog.New(h).With("request_id", "req-7").WithGroup("session").Info("accepted", "id", "s-1")
	for _, buf := range []*bytes.Buffer{&a, &b} {
		assert.Contains(t, buf.String(), `"request_id":"req-7"`)
		assert.Contains(t, buf.String(), `"session":{"id":"s-1"}`)
	}
}

func TestCleanup(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "system_logs" WHERE timestamp <`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := Cleanup(db, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
