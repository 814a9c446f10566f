// ifsserver renders an iterated function system and serves the progressive
// image and the render controls to viewers over TCP and websocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/marben/irpc"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	ifs "github.com/marben/chaosgame"
	"github.com/marben/chaosgame/render"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

// envOr returns the environment variable key, or def when it is unset.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func run() error {
	cfg := render.DefaultConfig()
	fs := flag.NewFlagSet("ifsserver", flag.ExitOnError)
	cfg.RegisterFlags(fs)
	var (
		preset   = fs.String("preset", "sierpinski", "built-in system: "+strings.Join(ifs.PresetNames(), ", "))
		sysFile  = fs.String("system", "", "JSON system file, overrides -preset")
		width    = fs.Int("width", 1920, "canvas width")
		height   = fs.Int("height", 1080, "canvas height")
		httpAddr = fs.String("http", envOr("IFS_HTTP_ADDR", ":8080"), "http listen address (IFS_HTTP_ADDR)")
		tcpAddr  = fs.String("tcp", envOr("IFS_TCP_ADDR", ":8081"), "tcp stream listen address (IFS_TCP_ADDR)")
		static   = fs.String("static", envOr("IFS_STATIC_DIR", "./static"), "directory served at / (IFS_STATIC_DIR)")
		origins  = fs.String("origins", envOr("IFS_ORIGINS", "*"), "comma separated websocket origin patterns (IFS_ORIGINS)")
		paused   = fs.Bool("paused", false, "wait for a start command instead of rendering at once")
		verbose  = fs.Bool("v", false, "debug logging")
	)
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}
	setupLogging(*verbose)

	sys, err := ifs.LoadSystem(*preset, *sysFile)
	if err != nil {
		return err
	}
	size := image.Pt(*width, *height)
	r, err := render.New(size, cfg, render.WithMetrics(render.NewMetrics(prometheus.DefaultRegisterer)))
	if err != nil {
		return fmt.Errorf("render.New: %w", err)
	}
	r.SetTransforms(render.FromSystem(sys, size))
	slog.Info("system loaded", "name", sys.Name, "transforms", len(sys.Transforms), "reflections", len(sys.Reflections))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// one service instance backs both listeners, so tcp and websocket viewers
	// share the renderer
	service := newRenderService(r)
	irpcServer := service.newServer()

	// TCP
	tcpListener, err := net.Listen("tcp", *tcpAddr)
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}
	slog.Info("tcp listening", "addr", tcpListener.Addr())

	// WEBSOCKET
	wsListener, httpServer := webServer(ctx, *httpAddr, *static, strings.Split(*origins, ","), r)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpServer: %w", err)
		}
		return nil
	})
	// irpcServer serves both the tcp and the websocket listener
	g.Go(func() error { return serveIrpc(irpcServer, tcpListener) })
	g.Go(func() error { return serveIrpc(irpcServer, wsListener) })
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		// closes both listeners and every connected endpoint
		if cerr := irpcServer.Close(); cerr != nil {
			slog.Warn("irpc server close", "err", cerr)
		}
		r.Stop()
		return err
	})

	if !*paused {
		r.Start()
	}
	slog.Info("ifs server waiting for tcp and websocket viewers")
	return g.Wait()
}

// serveIrpc runs srv on l until the server is closed.
func serveIrpc(srv *irpc.Server, l net.Listener) error {
	if err := srv.Serve(l); !errors.Is(err, irpc.ErrServerClosed) {
		return fmt.Errorf("irpcServer.Serve %s: %w", l.Addr().Network(), err)
	}
	return nil
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(l)
	render.SetLogger(l)
}
