package inspect

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/imui/pkg/imui"
	"github.com/vango-dev/imui/pkg/metrics"
	"github.com/vango-dev/imui/pkg/retained"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// publishTree renders a small UI and publishes its state.
func publishTree(t *testing.T, srv *Server, label string, opts ...imui.Option) *retained.Tree {
	t.Helper()
	tree := retained.New(retained.WithTitle("test"), retained.WithLogger(quiet))
	opts = append([]imui.Option{imui.WithLogger(quiet)}, opts...)
	sess := imui.NewSession(tree, tree.Root(), func(s *imui.Session) {
		s.Panel(1, 0)
		s.Button(1, 0, label)
		s.Pop()
	}, opts...)
	sess.OnRender(func(st imui.Stats) { srv.Publish(tree.Snapshot(), st) })
	sess.Render(context.Background())
	return tree
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestTreeAndStats(t *testing.T) {
	srv := New(WithLogger(quiet))
	tree := publishTree(t, srv, "OK")
	h := srv.Handler()

	rec := get(t, h, "/tree")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /tree = %d", rec.Code)
	}
	var snap retained.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tree.Snapshot(), snap); diff != "" {
		t.Errorf("tree (-want +got):\n%s", diff)
	}

	rec = get(t, h, "/tree?format=text")
	if got := rec.Body.String(); got != tree.Snapshot().String() {
		t.Errorf("text tree = %q", got)
	}

	rec = get(t, h, "/stats")
	var st Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.Trigger != "render" || st.Created != 2 || st.Passes != 1 || st.Source != nil {
		t.Errorf("stats = %+v", st)
	}
}

func TestStatsOfSource(t *testing.T) {
	st := StatsOf(imui.Stats{Trigger: imui.TriggerEvent, Source: 7, HasSource: true, Duration: time.Millisecond})
	if st.Source == nil || *st.Source != 7 {
		t.Errorf("Source = %v, want 7", st.Source)
	}
	if st.Duration != "1ms" || st.Trigger != "event" {
		t.Errorf("stats = %+v", st)
	}
}

func TestEvents(t *testing.T) {
	srv := New(WithLogger(quiet), WithEventBuffer(1))
	h := srv.Handler()

	post := func(body string) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body)))
		return rec.Code
	}

	if code := post(`{"kind":"click","path":[1,1]}`); code != http.StatusAccepted {
		t.Fatalf("POST /events = %d, want 202", code)
	}
	if code := post(`{"kind":"click","path":[1,2]}`); code != http.StatusServiceUnavailable {
		t.Errorf("POST to a full queue = %d, want 503", code)
	}

	select {
	case a := <-srv.Events():
		want := retained.Action{Kind: retained.ActionClick, Path: []imui.ID{1, 1}}
		if diff := cmp.Diff(want, a); diff != "" {
			t.Errorf("action (-want +got):\n%s", diff)
		}
	default:
		t.Fatal("no action queued")
	}

	for _, body := range []string{
		`not json`,
		`{"kind":"drag","path":[1]}`,
		`{"kind":"click","path":[]}`,
		`{"kind":"click","path":[1],"extra":true}`,
	} {
		if code := post(body); code != http.StatusBadRequest {
			t.Errorf("POST %s = %d, want 400", body, code)
		}
	}
}

func TestEventsAppliedToTree(t *testing.T) {
	srv := New(WithLogger(quiet))
	tree := publishTree(t, srv, "OK")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events",
		strings.NewReader(`{"kind":"click","path":[1,1]}`)))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("POST /events = %d", rec.Code)
	}

	seq := srv.Current().Seq
	if err := tree.Apply(<-srv.Events()); err != nil {
		t.Fatal(err)
	}
	u := srv.Current()
	if u.Seq != seq+1 {
		t.Errorf("Seq = %d after the click, want %d", u.Seq, seq+1)
	}
	if u.Stats.Trigger != "event" || u.Stats.Source == nil || *u.Stats.Source != 1 {
		t.Errorf("stats = %+v", u.Stats)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := New(WithLogger(quiet), WithGatherer(reg))
	publishTree(t, srv, "OK", imui.WithMetrics(metrics.New(metrics.WithRegistry(reg))))

	rec := get(t, srv.Handler(), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `imui_renders_total{trigger="render"} 1`) {
		t.Errorf("metrics missing render count:\n%s", rec.Body.String())
	}

	if rec := get(t, New().Handler(), "/metrics"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics without a gatherer = %d, want 404", rec.Code)
	}
}

func readUpdate(t *testing.T, conn *websocket.Conn) Update {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var u Update
	if err := conn.ReadJSON(&u); err != nil {
		t.Fatal(err)
	}
	return u
}

func TestWebSocket(t *testing.T) {
	srv := New(WithLogger(quiet))
	publishTree(t, srv, "first")

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	u := readUpdate(t, conn)
	if got := u.Tree.Children[0].Children[0].Text; got != "first" {
		t.Errorf("initial update shows %q", got)
	}

	// The client is registered once the initial update is written.
	deadline := time.Now().Add(5 * time.Second)
	for srv.Clients() != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	publishTree(t, srv, "second")
	u = readUpdate(t, conn)
	if got := u.Tree.Children[0].Children[0].Text; got != "second" {
		t.Errorf("broadcast update shows %q", got)
	}

	srv.Close()
	if srv.Clients() != 0 {
		t.Errorf("Clients() = %d after Close", srv.Clients())
	}
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := New(WithLogger(quiet))
	publishTree(t, srv, "OK")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/stats")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /stats = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
