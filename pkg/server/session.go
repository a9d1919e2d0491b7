package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fluorine-dev/fluorine/pkg/rx"
	"github.com/fluorine-dev/fluorine/pkg/sheet"
)

// session is one connected editor. Its render effect is the terminal
// node of the session's view of the graph: a push re-sends the snapshot
// only when the effect is dirty, i.e. when something the last render
// read has changed.
type session struct {
	id     uint64
	conn   *websocket.Conn
	render *rx.Effect
	logger *slog.Logger
}

// editMessage is what clients send: a new formula source for one cell.
type editMessage struct {
	Cell int    `json:"cell"`
	Src  string `json:"src"`
}

// patchMessage is what the server pushes: the full rendered sheet, the
// edit count, and, for the editing session only, any formula error.
type patchMessage struct {
	Cells []sheet.CellState `json:"cells"`
	Edits int               `json:"edits"`
	Error string            `json:"error,omitempty"`
}

// readLoop consumes edit messages until the connection drops.
func (s *Server) readLoop(ctx context.Context, sess *session) {
	for {
		var msg editMessage
		if err := sess.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sess.logger.Error("read failed", "error", err)
			}
			return
		}
		s.applyEdit(ctx, sess, msg)
	}
}

// applyEdit mutates the sheet and pushes patches to every session whose
// render effect got dirtied by the edit.
func (s *Server) applyEdit(ctx context.Context, sess *session, msg editMessage) {
	ctx, span := s.tracer.Start(ctx, "sheet.edit",
		trace.WithAttributes(attribute.Int("sheet.cell", msg.Cell)))
	defer span.End()

	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	editErr := s.sheet.SetSource(msg.Cell, msg.Src)

	status := "applied"
	errText := ""
	if editErr != nil {
		status = "rejected"
		errText = editErr.Error()
		span.RecordError(editErr)
		span.SetStatus(codes.Error, editErr.Error())
		sess.logger.Warn("edit rejected", "cell", msg.Cell, "error", editErr)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	s.metrics.editsTotal.WithLabelValues(status).Inc()

	for _, other := range s.sessions {
		sessionErr := ""
		if other == sess {
			sessionErr = errText
		}
		if err := other.push(s, sessionErr); err != nil {
			other.logger.Error("push failed", "error", err)
		}
	}

	s.metrics.editDuration.Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("sheet.edits", s.sheet.EditCount()))
}

// pushLocked pushes to one session; the caller holds s.mu.
func (s *Server) pushLocked(sess *session, errText string) error {
	return sess.push(s, errText)
}

// push re-renders and writes a patch if the session's effect is dirty.
// A clean effect with no error to report is a no-op.
func (sess *session) push(s *Server, errText string) error {
	var writeErr error

	ran := sess.render.Call(s.sheet.Dep().Ctx(), func(ctx *rx.Ctx) {
		patch := patchMessage{
			Cells: s.sheet.Snapshot(ctx),
			Edits: len(s.sheet.Edits(ctx)),
			Error: errText,
		}
		writeErr = sess.conn.WriteJSON(patch)
	})

	if !ran {
		if errText == "" {
			s.metrics.pushesSkipped.Inc()
			return nil
		}
		// The render is clean but the editor still needs the rejection.
		return sess.conn.WriteJSON(patchMessage{Error: errText})
	}

	if writeErr != nil {
		return writeErr
	}
	s.metrics.patchesSent.Inc()
	return nil
}
