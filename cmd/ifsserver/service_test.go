package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/marben/irpc"

	ifs "github.com/marben/chaosgame"
	"github.com/marben/chaosgame/render"
)

func newTestRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	cfg := render.DefaultConfig()
	cfg.Threads = 1
	size := image.Pt(32, 24)
	r, err := render.New(size, cfg)
	if err != nil {
		t.Fatal(err)
	}
	r.SetTransforms(render.FromSystem(ifs.Sierpinski(), size))
	t.Cleanup(func() { r.Stop() })
	return r
}

// pipeEndpoints connects a client endpoint to an endpoint serving s.
func pipeEndpoints(t *testing.T, s *renderService) *irpc.Endpoint {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	serverEp := irpc.NewEndpoint(serverConn, irpc.WithEndpointServices(
		ifs.NewImgProviderIrpcService(s),
		ifs.NewRenderControlIrpcService(s),
	))
	clientEp := irpc.NewEndpoint(clientConn)
	t.Cleanup(func() {
		clientEp.Close()
		serverEp.Close()
	})
	return clientEp
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRenderServiceRemote(t *testing.T) {
	r := newTestRenderer(t)
	ep := pipeEndpoints(t, newRenderService(r))

	imgClient, err := ifs.NewImgProviderIrpcClient(ep)
	if err != nil {
		t.Fatal(err)
	}
	img, err := imgClient.GetImage()
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if img.Bounds().Size() != image.Pt(32, 24) || len(img.Pix) != 32*24*4 {
		t.Errorf("image bounds %v, %d bytes", img.Bounds(), len(img.Pix))
	}

	ctl, err := ifs.NewRenderControlIrpcClient(ep)
	if err != nil {
		t.Fatal(err)
	}
	st, err := ctl.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if st.Width != 32 || st.Height != 24 || st.Running || st.Threads != 1 {
		t.Errorf("stats = %+v", st)
	}

	frame, err := ctl.GetFrame()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(bytes.NewReader(frame))
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if decoded.Bounds().Size() != image.Pt(32, 24) {
		t.Errorf("frame size %v", decoded.Bounds().Size())
	}

	st, err = ctl.Command(ifs.Command{Op: "threads", Threads: 3})
	if err != nil || st.Threads != 3 || r.Config().Threads != 3 {
		t.Errorf("threads command: %+v, %v", st, err)
	}
	st, err = ctl.Command(ifs.Command{Op: "start"})
	if err != nil || !st.Running {
		t.Errorf("start command: %+v, %v", st, err)
	}

	// errors cross the connection as their message
	_, err = ctl.Command(ifs.Command{Op: "explode"})
	if err == nil || !strings.Contains(err.Error(), `unknown op "explode"`) {
		t.Errorf("unknown op error = %v", err)
	}
	st, err = ctl.Command(ifs.Command{Op: "threads", Threads: 0})
	if err == nil || st.Threads != 3 {
		t.Errorf("zero threads: %+v, %v", st, err)
	}
}

func TestApplyCommand(t *testing.T) {
	r := newTestRenderer(t)

	if err := applyCommand(r, ifs.Command{Op: "start"}); err != nil || !r.IsRunning() {
		t.Fatalf("start: %v, running %v", err, r.IsRunning())
	}
	if err := applyCommand(r, ifs.Command{Op: "rescale", Scale: 2, X: 16, Y: 12}); err != nil {
		t.Fatal(err)
	}
	if !r.IsRunning() {
		t.Error("rescale did not restart the render")
	}
	if err := applyCommand(r, ifs.Command{Op: "stop"}); err != nil || r.IsRunning() {
		t.Fatalf("stop: %v, running %v", err, r.IsRunning())
	}
	if err := applyCommand(r, ifs.Command{Op: "reset"}); err != nil || r.Count() != 0 {
		t.Errorf("reset: %v, count %d", err, r.Count())
	}
	if err := applyCommand(r, ifs.Command{Op: "threads", Threads: 0}); err == nil {
		t.Error("zero threads accepted")
	}
	if err := applyCommand(r, ifs.Command{Op: "explode"}); err == nil {
		t.Error("unknown op accepted")
	}
}

func TestServerCountsViewers(t *testing.T) {
	s := newRenderService(newTestRenderer(t))
	srv := s.newServer()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	served := make(chan error, 1)
	go func() { served <- serveIrpc(srv, l) }()

	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	ep := irpc.NewEndpoint(conn)
	ctl, err := ifs.NewRenderControlIrpcClient(ep)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ctl.Stats(); err != nil {
		t.Fatalf("Stats over tcp: %v", err)
	}
	waitFor(t, "viewer to register", func() bool { return s.viewerCount() == 1 })

	ep.Close()
	waitFor(t, "viewer to leave", func() bool { return s.viewerCount() == 0 })

	if err := srv.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	select {
	case err := <-served:
		if err != nil {
			t.Errorf("serveIrpc after Close = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serveIrpc did not return after Close")
	}
}

func TestWebServer(t *testing.T) {
	r := newTestRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l, srv := webServer(ctx, ":0", t.TempDir(), []string{"*"}, r)
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	irpcServer := newRenderService(r).newServer()
	go func() { _ = serveIrpc(irpcServer, l) }()
	defer irpcServer.Close()

	resp, err := ts.Client().Get(ts.URL + "/debug/threads")
	if err != nil {
		t.Fatal(err)
	}
	var body bytes.Buffer
	_, _ = body.ReadFrom(resp.Body)
	resp.Body.Close()
	if !strings.Contains(body.String(), "state=stopped") {
		t.Errorf("/debug/threads = %q", body.String())
	}

	resp, err = ts.Client().Get(ts.URL + "/debug/tasks")
	if err != nil {
		t.Fatal(err)
	}
	var tasks []render.TaskInfo
	err = json.NewDecoder(resp.Body).Decode(&tasks)
	resp.Body.Close()
	if err != nil || len(tasks) != 0 {
		t.Errorf("/debug/tasks = %v, %v", tasks, err)
	}

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	c, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	ep := irpc.NewEndpoint(websocket.NetConn(ctx, c, websocket.MessageBinary))
	defer ep.Close()

	ctl, err := ifs.NewRenderControlIrpcClient(ep)
	if err != nil {
		t.Fatal(err)
	}
	st, err := ctl.Stats()
	if err != nil || st.Width != 32 {
		t.Errorf("stats over websocket = %+v, %v", st, err)
	}
}

func TestWebsocketListenerClose(t *testing.T) {
	l := NewWSListener(context.Background(), "test/ws")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatal("second Close failed")
	}
	if _, err := l.Accept(); err != net.ErrClosed {
		t.Errorf("Accept after Close = %v, want net.ErrClosed", err)
	}
	if l.Addr().Network() != "ws" || l.Addr().String() != "test/ws" {
		t.Errorf("Addr() = %v", l.Addr())
	}
}
