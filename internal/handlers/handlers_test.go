package handlers

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"weaponwheel/internal/wheel"
	"weaponwheel/pkg/realtime"
)

type fixedRNG int

func (f fixedRNG) IntN(n int) int { return int(f) % n }

func newTestRouter(t *testing.T) (*chi.Mux, *wheel.Store, *realtime.ManualScheduler) {
	t.Helper()
	sched := realtime.NewManualScheduler()
	store := wheel.NewStore(
		wheel.WithStoreScheduler(sched),
		wheel.WithStoreRNG(func() wheel.RandomSource { return fixedRNG(0) }),
	)
	if _, err := store.CreateWheel("main", nil); err != nil {
		t.Fatalf("CreateWheel: %v", err)
	}
	log := zap.NewNop()
	r := chi.NewRouter()
	r.Use(RequestLogger(log))
	NewHomeHandler(store, "main", log).RegisterRoutes(r)
	NewWheelHandler(store, log, "https://wheel.example/").RegisterRoutes(r)
	return r, store, sched
}

func do(r http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

var jsonHeader = map[string]string{"Accept": "application/json"}

func TestHome_RedirectsToDefaultWheel(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := do(r, http.MethodGet, "/", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/wheel/main" {
		t.Errorf("Location %q, want /wheel/main", loc)
	}
}

func TestCreateWheel(t *testing.T) {
	r, store, _ := newTestRouter(t)
	rec := do(r, http.MethodPost, "/wheels", jsonHeader)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d, want 201", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := store.GetWheel(body["id"]); !ok {
		t.Errorf("wheel %q not in store", body["id"])
	}

	rec = do(r, http.MethodPost, "/wheels", nil)
	if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/wheel/") {
		t.Errorf("form post status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestWheelPage(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := do(r, http.MethodGet, "/wheel/main", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"SPIN!", "<svg", "HMR", "https://wheel.example/wheel/main", `data-stream-url="/wheel/main/stream"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if n := strings.Count(body, "<path "); n != 14 {
		t.Errorf("segments %d, want 14", n)
	}
}

func TestWheelPage_NotFound(t *testing.T) {
	r, _, _ := newTestRouter(t)
	if rec := do(r, http.MethodGet, "/wheel/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rec.Code)
	}
}

func TestSpin(t *testing.T) {
	r, _, sched := newTestRouter(t)

	rec := do(r, http.MethodPost, "/wheel/main/spin", jsonHeader)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status %d, want 202", rec.Code)
	}
	var spin spinResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &spin); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if spin.SpinID == "" || spin.WheelID != "main" {
		t.Errorf("response %+v", spin)
	}

	rec = do(r, http.MethodPost, "/wheel/main/spin", jsonHeader)
	if rec.Code != http.StatusConflict {
		t.Errorf("second spin status %d, want 409", rec.Code)
	}

	sched.RunAll()
	rec = do(r, http.MethodPost, "/wheel/main/spin", map[string]string{"Hx-Request": "true"})
	if rec.Code != http.StatusAccepted {
		t.Errorf("spin after completion status %d, want 202", rec.Code)
	}
}

func TestSpin_FormPostRedirects(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := do(r, http.MethodPost, "/wheel/main/spin", nil)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status %d, want 303", rec.Code)
	}
}

func TestSpin_UnknownWheel(t *testing.T) {
	r, _, _ := newTestRouter(t)
	if rec := do(r, http.MethodPost, "/wheel/nope/spin", jsonHeader); rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rec.Code)
	}
}

func TestState(t *testing.T) {
	r, _, sched := newTestRouter(t)
	do(r, http.MethodPost, "/wheel/main/spin", jsonHeader)

	var st stateResponse
	rec := do(r, http.MethodGet, "/wheel/main/state", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !st.Spinning || st.SpinID == "" || len(st.Options) != 14 {
		t.Errorf("state while spinning %+v", st)
	}

	sched.RunAll()
	rec = do(r, http.MethodGet, "/wheel/main/state", nil)
	st = stateResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Spinning || st.Last == nil {
		t.Fatalf("state after spin %+v", st)
	}
	// start 0 + 576 = 216 degrees; pointer (360-216+90) = 234 -> segment 9
	if st.Last.Label != "LBG" || st.Last.Index != 9 {
		t.Errorf("winner %+v, want LBG/9", st.Last)
	}
}

func TestResultFragment(t *testing.T) {
	r, _, sched := newTestRouter(t)
	do(r, http.MethodPost, "/wheel/main/spin", jsonHeader)
	if body := do(r, http.MethodGet, "/wheel/main/result", nil).Body.String(); !strings.Contains(body, "Spinning...") {
		t.Errorf("fragment while spinning %q", body)
	}
	sched.RunAll()
	body := do(r, http.MethodGet, "/wheel/main/result", nil).Body.String()
	if !strings.Contains(body, "Your Weapon: LBG") || !strings.Contains(body, "...pew pew?!") {
		t.Errorf("fragment after spin %q", body)
	}
}

func TestHealthz(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := do(r, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz %d %q", rec.Code, rec.Body.String())
	}
}

func TestStream(t *testing.T) {
	r, store, sched := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/wheel/main/stream")
	if err != nil {
		t.Fatalf("GET stream: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type %q", ct)
	}

	events := make(chan string, 128)
	go func() {
		defer close(events)
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			if line := sc.Text(); strings.HasPrefix(line, "event: ") {
				events <- strings.TrimPrefix(line, "event: ")
			}
		}
	}()

	next := func() string {
		select {
		case e, ok := <-events:
			if !ok {
				t.Fatal("stream closed")
			}
			return e
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for event")
		}
		return ""
	}

	if e := next(); e != "state" {
		t.Fatalf("first event %q, want state", e)
	}
	if _, err := store.Spin("main"); err != nil {
		t.Fatalf("Spin: %v", err)
	}
	sched.RunAll()

	if e := next(); e != wheel.EventSpinning {
		t.Errorf("event %q, want spinning", e)
	}
	frames := 0
	for {
		e := next()
		if e == wheel.EventWinner {
			break
		}
		if e == wheel.EventFrame {
			frames++
		}
	}
	if frames != 50 {
		t.Errorf("frames %d, want 50", frames)
	}
}
