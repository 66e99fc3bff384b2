package cli

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapegrid/pkg/api"
	"github.com/matzehuels/shapegrid/pkg/pipeline"
	"github.com/matzehuels/shapegrid/pkg/project"
)

func TestServeShutsDownOnCancel(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := &http.Server{Handler: api.NewServer(api.Options{
		Store:       project.NewMemoryStore(),
		Snapshotter: pipeline.NewSnapshotter(nil, nil, nil),
	})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.serve(ctx, srv, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	var health api.Health
	err = json.NewDecoder(resp.Body).Decode(&health)
	resp.Body.Close()
	if err != nil || health.Status != "ok" {
		t.Errorf("health = %+v, %v", health, err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestProjectPushAndPull(t *testing.T) {
	remote := project.NewMemoryStore()
	ts := httptest.NewServer(api.NewServer(api.Options{
		Store:       remote,
		Snapshotter: pipeline.NewSnapshotter(nil, nil, nil),
		PublicURL:   "https://grids.example.com",
	}))
	defer ts.Close()

	e := newTestEnv(t)
	input := e.path("grid.json")
	e.mustRun("generate", "--rows", "5", "--seed", "21", "-o", input)
	e.mustRun("project", "save", "waves", input)
	e.mustRun("project", "push", "waves", "--server", ts.URL)

	ps, err := remote.List(context.Background())
	if err != nil || len(ps) != 1 || ps[0].Name != "waves" {
		t.Fatalf("remote projects = %+v, %v", ps, err)
	}

	e.mustRun("project", "pull", "waves", "--server", ts.URL, "--name", "mirror")
	got := parseSettings(t, e.mustRun("project", "load", "mirror"))
	if got.Rows != 5 {
		t.Errorf("pulled Rows = %d, want 5", got.Rows)
	}

	if _, err := e.run("project", "push", "waves"); err == nil || !strings.Contains(err.Error(), "--server") {
		t.Errorf("push without --server: error = %v", err)
	}
}
