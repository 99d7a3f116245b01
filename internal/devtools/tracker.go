// Package devtools provides development instrumentation for API usage.
package devtools

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultLogLimit = 500

type originKey struct{}

// EntryKind describes the type of a tracked entry.
type EntryKind int

const (
	// EntryRequest represents an HTTP request to the market-data API.
	EntryRequest EntryKind = iota
	// EntryCache represents a Redis command against the page cache.
	EntryCache
	// EntryConsole represents the result of a console command.
	EntryConsole
)

// Entry captures a single tracked operation.
type Entry struct {
	Kind     EntryKind
	Detail   string // method and request URI, or the cache command line
	Status   int    // HTTP status code, 0 when not applicable
	Err      string // short error text for failed operations
	Duration time.Duration
}

// LogEntry captures a single tracked log line.
type LogEntry struct {
	Seq    uint64
	Time   time.Time
	Origin string
	Entry  Entry
}

// Tracker records API requests and cache commands for development
// diagnostics.
type Tracker struct {
	logLimit int
	logMu    sync.RWMutex
	log      []LogEntry
	logHead  int
	logFull  bool
	logSeq   uint64
}

// NewTracker creates a new development tracker.
func NewTracker() *Tracker {
	return &Tracker{
		logLimit: defaultLogLimit,
	}
}

// WithOrigin returns a context carrying the origin label.
func WithOrigin(ctx context.Context, origin string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, originKey{}, origin)
}

// WithTracker returns a context carrying the origin label.
func WithTracker(ctx context.Context, origin string) context.Context {
	if origin == "" {
		return ctx
	}
	return WithOrigin(ctx, origin)
}

// OriginFromContext extracts the origin label from context.
func OriginFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value := ctx.Value(originKey{}); value != nil {
		if origin, ok := value.(string); ok {
			return origin
		}
	}
	return ""
}

// LogEntries returns the most recent entries in chronological order.
func (t *Tracker) LogEntries() []LogEntry {
	t.logMu.RLock()
	defer t.logMu.RUnlock()
	if len(t.log) == 0 {
		return nil
	}
	if !t.logFull {
		return append([]LogEntry(nil), t.log...)
	}
	result := make([]LogEntry, 0, len(t.log))
	result = append(result, t.log[t.logHead:]...)
	result = append(result, t.log[:t.logHead]...)
	return result
}

// AppendLog appends a log entry to the ring buffer.
func (t *Tracker) AppendLog(entry LogEntry) {
	if t == nil || t.logLimit == 0 {
		return
	}

	t.logMu.Lock()
	entry.Seq = t.logSeq
	t.logSeq++
	if len(t.log) < t.logLimit {
		t.log = append(t.log, entry)
		if len(t.log) == t.logLimit {
			t.logHead = 0
			t.logFull = true
		}
		t.logMu.Unlock()
		return
	}
	t.log[t.logHead] = entry
	t.logHead = (t.logHead + 1) % t.logLimit
	t.logFull = true
	t.logMu.Unlock()
}

// ClearLog drops all recorded entries. Sequence numbers keep counting so
// cleared entries are never confused with new ones.
func (t *Tracker) ClearLog() {
	if t == nil {
		return
	}
	t.logMu.Lock()
	t.log = t.log[:0]
	t.logHead = 0
	t.logFull = false
	t.logMu.Unlock()
}

// Transport wraps base with request tracking. A nil base uses
// http.DefaultTransport.
func (t *Tracker) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return roundTripper{tracker: t, base: base}
}

// Hook returns a Redis hook for tracking page cache commands.
func (t *Tracker) Hook() redis.Hook {
	return hook{tracker: t}
}

// FormatDuration renders a compact duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < 10*time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}

type roundTripper struct {
	tracker *Tracker
	base    http.RoundTripper
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := rt.base.RoundTrip(req)

	entry := Entry{
		Kind:     EntryRequest,
		Detail:   req.Method + " " + req.URL.RequestURI(),
		Duration: time.Since(start),
	}
	if err != nil {
		entry.Err = err.Error()
	} else {
		entry.Status = resp.StatusCode
	}
	rt.tracker.appendLogEntry(req.Context(), entry)

	return resp, err
}

type hook struct {
	tracker *Tracker
}

func (h hook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h hook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.record(ctx, cmd, time.Since(start))
		return err
	}
}

func (h hook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		// The page cache never pipelines; if something does, attribute the
		// batch duration to its first command.
		for i, cmd := range cmds {
			if i == 0 {
				h.record(ctx, cmd, time.Since(start))
				continue
			}
			h.record(ctx, cmd, 0)
		}
		return err
	}
}

func (h hook) record(ctx context.Context, cmd redis.Cmder, duration time.Duration) {
	if h.tracker == nil {
		return
	}

	entry := Entry{
		Kind:     EntryCache,
		Detail:   formatCommand(cmd),
		Duration: duration,
	}
	if err := cmd.Err(); err != nil && err != redis.Nil {
		entry.Err = err.Error()
	}
	h.tracker.appendLogEntry(ctx, entry)
}

func (t *Tracker) appendLogEntry(ctx context.Context, entry Entry) {
	if t == nil {
		return
	}
	origin := OriginFromContext(ctx)
	if origin == "" {
		origin = originFromCallers()
	}
	if origin == "" {
		origin = "unknown"
	}
	t.AppendLog(LogEntry{
		Time:   time.Now(),
		Origin: origin,
		Entry:  entry,
	})
}

func originFromCallers() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(4, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var marketFallback string
	for {
		frame, more := frames.Next()
		fn := frame.Function
		if fn == "" {
			if !more {
				break
			}
			continue
		}
		if strings.Contains(fn, "/internal/ui/") || strings.Contains(fn, "/internal/ui.") {
			return shortFuncName(fn)
		}
		if marketFallback == "" && (strings.Contains(fn, "/internal/market/") || strings.Contains(fn, "/internal/market.")) {
			marketFallback = shortFuncName(fn)
		}
		if !more {
			break
		}
	}
	return marketFallback
}

func shortFuncName(fn string) string {
	if idx := strings.LastIndex(fn, "/"); idx >= 0 {
		fn = fn[idx+1:]
	}
	fn = strings.TrimSuffix(fn, ".func1")
	fn = strings.ReplaceAll(fn, "(*", "")
	fn = strings.ReplaceAll(fn, ")", "")
	return fn
}

func formatCommand(cmd redis.Cmder) string {
	args := cmd.Args()
	if len(args) == 0 {
		return cmd.Name()
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	return strings.Join(parts, " ")
}
