package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/viddrobnic/simple-rss/internal/database"
)

// DatabaseHandler is a slog.Handler that persists records to the
// log_messages table. Writing to the terminal would corrupt the TUI, so
// logs go to the database and are browsed in the log view.
type DatabaseHandler struct {
	queries      *database.Queries
	debugEnabled bool
}

func NewDatabaseHandler(queries *database.Queries, debug bool) *DatabaseHandler {
	return &DatabaseHandler{
		queries:      queries,
		debugEnabled: debug,
	}
}

func (h *DatabaseHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelDebug && !h.debugEnabled {
		return false
	}
	return true
}

func (h *DatabaseHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]interface{})
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "error" {
			if err, ok := a.Value.Any().(error); ok {
				attrs[a.Key] = err.Error()
			} else {
				attrs[a.Key] = a.Value.String()
			}
		} else {
			attrs[a.Key] = a.Value.Any()
		}
		return true
	})

	var attributesJSON sql.NullString
	if len(attrs) > 0 {
		jsonData, err := json.Marshal(attrs)
		if err != nil {
			return err
		}
		attributesJSON = sql.NullString{String: string(jsonData), Valid: true}
	}

	return h.queries.CreateLogMessage(ctx, database.CreateLogMessageParams{
		Level:      r.Level.String(),
		Message:    r.Message,
		Timestamp:  sql.NullTime{Time: r.Time, Valid: true},
		Attributes: attributesJSON,
	})
}

func (h *DatabaseHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *DatabaseHandler) WithGroup(_ string) slog.Handler {
	return h
}
