package kitchen

import (
	"context"
	"encoding/json"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

// Ticket is one placed order as the kitchen display receives it.
type Ticket struct {
	From     string          `json:"from"`
	Kind     string          `json:"kind"`
	Order    json.RawMessage `json:"order"`
	PlacedAt time.Time       `json:"placed_at"`
}

// Feed pushes order tickets to the kitchen display bus over a websocket.
type Feed struct {
	mu      sync.Mutex
	conn    *ws.Conn
	lane    string
	timeout time.Duration
	now     func() time.Time
}

func Dial(ctx context.Context, url, lane string, timeout time.Duration) (*Feed, error) {
	log.Debug("Dialing kitchen feed", "url", url)

	conn, _, err := ws.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial kitchen feed: %w", err)
	}

	log.Info("Connected to kitchen feed", "url", url)
	return &Feed{conn: conn, lane: lane, timeout: timeout, now: time.Now}, nil
}

// Send writes one ticket. The write gives up at the earlier of the feed's
// timeout and ctx's deadline.
func (f *Feed) Send(ctx context.Context, order json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send ticket: %w", err)
	}

	data, err := json.Marshal(Ticket{
		From:     f.lane,
		Kind:     "order",
		Order:    order,
		PlacedAt: f.now().UTC(),
	})
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	_ = f.conn.SetWriteDeadline(f.deadline(ctx))

	log.Debug("Write kitchen ticket", "bytes", len(data))
	if err := f.conn.WriteMessage(ws.TextMessage, data); err != nil {
		if isClosed(err) {
			return fmt.Errorf("kitchen feed closed: %w", err)
		}
		return fmt.Errorf("write ticket: %w", err)
	}

	return nil
}

// deadline is zero when neither a timeout nor a ctx deadline applies.
func (f *Feed) deadline(ctx context.Context) time.Time {
	var d time.Time
	if f.timeout > 0 {
		d = f.now().Add(f.timeout)
	}
	if cd, ok := ctx.Deadline(); ok && (d.IsZero() || cd.Before(d)) {
		d = cd
	}
	return d
}

func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	msg := ws.FormatCloseMessage(ws.CloseNormalClosure, "lane closed")
	_ = f.conn.WriteControl(ws.CloseMessage, msg, time.Now().Add(time.Second))
	return f.conn.Close()
}

func isClosed(err error) bool {
	return ws.IsCloseError(err,
		ws.CloseNormalClosure,
		ws.CloseGoingAway,
		ws.CloseAbnormalClosure)
}
