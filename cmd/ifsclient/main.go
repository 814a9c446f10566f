// ifsclient connects to an ifsserver, optionally sends it a command, and saves
// the rendered image once the render has progressed far enough.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/marben/irpc"

	ifs "github.com/marben/chaosgame"
)

func main() {
	slog.Info("starting ifs client")
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

type options struct {
	addr    string
	cmd     ifs.Command
	count   uint64
	out     string
	poll    time.Duration
	timeout time.Duration
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("ifsclient", flag.ContinueOnError)
	addr := os.Getenv("IFS_TCP_ADDR")
	if addr == "" {
		addr = ":8081"
	}
	fs.StringVar(&o.addr, "addr", addr, "server address (IFS_TCP_ADDR)")
	fs.StringVar(&o.cmd.Op, "op", "", "command to send first: start, stop, reset, rescale, threads")
	fs.Float64Var(&o.cmd.Scale, "scale", 2, "rescale factor")
	fs.Float64Var(&o.cmd.X, "x", 0, "rescale centre x in pixels")
	fs.Float64Var(&o.cmd.Y, "y", 0, "rescale centre y in pixels")
	fs.IntVar(&o.cmd.Threads, "threads", 0, "render threads for the threads command")
	fs.Uint64Var(&o.count, "count", 0, "wait until the render has done this many units of 1000 iterations")
	fs.StringVar(&o.out, "o", "ifs.png", "output PNG file")
	fs.DurationVar(&o.poll, "poll", 250*time.Millisecond, "progress polling interval")
	fs.DurationVar(&o.timeout, "timeout", 0, "give up after this long, 0 waits forever")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.poll <= 0 {
		return o, fmt.Errorf("poll interval must be positive, got %v", o.poll)
	}
	return o, nil
}

// run connects to the server, waits for the requested count, and saves the
// image as a PNG file.
func run(args []string) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	slog.Info("connecting to ifs server", "addr", o.addr)
	conn, err := net.Dial("tcp", o.addr)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	if o.timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(o.timeout))
	}

	img, st, err := fetch(conn, o)
	if err != nil {
		return err
	}

	slog.Info("saving image", "file", o.out, "width", img.Rect.Dx(), "height", img.Rect.Dy(), "count", st.Count)
	f, err := os.Create(o.out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, &img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return f.Close()
}

// fetch drives the server on conn: it sends the optional command, waits for
// the count and downloads the image. conn is closed on return.
func fetch(conn io.ReadWriteCloser, o options) (image.RGBA, ifs.Stats, error) {
	ep := irpc.NewEndpoint(conn)
	defer ep.Close()

	ctl, err := ifs.NewRenderControlIrpcClient(ep)
	if err != nil {
		return image.RGBA{}, ifs.Stats{}, fmt.Errorf("failed to create RenderControl client: %w", err)
	}
	if o.cmd.Op != "" {
		slog.Info("sending command", "op", o.cmd.Op)
		if _, err := ctl.Command(o.cmd); err != nil {
			return image.RGBA{}, ifs.Stats{}, fmt.Errorf("command %s: %w", o.cmd.Op, err)
		}
	}

	st, err := awaitCount(ctl, o.count, o.poll)
	if err != nil {
		return image.RGBA{}, st, err
	}

	client, err := ifs.NewImgProviderIrpcClient(ep)
	if err != nil {
		return image.RGBA{}, st, fmt.Errorf("failed to create ImgProvider client: %w", err)
	}
	img, err := client.GetImage()
	if err != nil {
		return image.RGBA{}, st, fmt.Errorf("client.GetImage: %w", err)
	}
	return img, st, nil
}

// awaitCount polls ctl until the render has done at least count units, or
// stops short of it.
func awaitCount(ctl ifs.RenderControl, count uint64, poll time.Duration) (ifs.Stats, error) {
	for {
		st, err := ctl.Stats()
		if err != nil {
			return st, fmt.Errorf("ctl.Stats: %w", err)
		}
		slog.Debug("progress", "count", st.Count, "running", st.Running, "tasks", st.Tasks)
		if st.Count >= count {
			return st, nil
		}
		if !st.Running {
			slog.Warn("render stopped before the requested count", "count", st.Count, "want", count)
			return st, nil
		}
		time.Sleep(poll)
	}
}
