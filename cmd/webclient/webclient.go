//go:build js && wasm

// webclient is the browser viewer of an ifsserver. It polls the render state
// and frames over a websocket irpc endpoint, draws every frame to a canvas and
// sends the commands of the page controls back to the server.
package main

import (
	"fmt"
	"image"
	"log"
	"strconv"
	"syscall/js"
	"time"

	"github.com/marben/irpc"

	ifs "github.com/marben/chaosgame"
)

const pollInterval = 250 * time.Millisecond

func main() {
	logScreenf("Starting ifs web client...")

	loc := js.Global().Get("window").Get("location")
	host := loc.Get("host").String()
	proto := "ws"
	if loc.Get("protocol").String() == "https:" {
		proto = "wss"
	}
	websocketUrl := proto + "://" + host + "/ws"

	logScreenf("Connecting to ifs server at %s...", websocketUrl)
	conn, err := dialWS(websocketUrl)
	if err != nil {
		logFatalf("dialWS: %v", err)
	}
	endpoint := irpc.NewEndpoint(conn)
	logScreenf("IRPC endpoint created.")

	ctl, err := ifs.NewRenderControlIrpcClient(endpoint)
	if err != nil {
		logFatalf("Failed to create RenderControl client: %v", err)
	}

	cmds := make(chan ifs.Command, 8)
	bindControls(cmds)
	go func() {
		for cmd := range cmds {
			st, err := ctl.Command(cmd)
			if err != nil {
				logScreenf("%s: %v", cmd.Op, err)
				continue
			}
			hudSetStats(st)
		}
	}()

	if err := frameLoop(ctl); err != nil {
		logFatalf("frameLoop: %v", err)
	}
}

// frameLoop polls the server for its state and current frame until the
// connection fails, keeping the HUD and the canvas up to date.
func frameLoop(ctl ifs.RenderControl) error {
	var rgba *image.RGBA
	frames := 0
	for {
		st, err := ctl.Stats()
		if err != nil {
			return fmt.Errorf("ctl.Stats: %w", err)
		}
		hudSetStats(st)

		frame, err := ctl.GetFrame()
		if err != nil {
			return fmt.Errorf("ctl.GetFrame: %w", err)
		}
		if rgba, err = displayFrame(frame, rgba); err != nil {
			return err
		}
		frames++
		hudSet("frames", frames)

		time.Sleep(pollInterval)
	}
}

// bindControls wires the page buttons and canvas clicks to commands. JS
// callbacks must not block, so commands are queued for the sender goroutine.
func bindControls(cmds chan<- ifs.Command) {
	doc := js.Global().Get("document")
	for _, op := range []string{"start", "stop", "reset"} {
		doc.Call("getElementById", op).Call("addEventListener", "click", js.FuncOf(func(js.Value, []js.Value) any {
			queueCommand(cmds, ifs.Command{Op: op})
			return nil
		}))
	}
	doc.Call("getElementById", "threads").Call("addEventListener", "change", js.FuncOf(func(this js.Value, _ []js.Value) any {
		n, err := strconv.Atoi(this.Get("value").String())
		if err != nil {
			logScreenf("threads: %v", err)
			return nil
		}
		queueCommand(cmds, ifs.Command{Op: "threads", Threads: n})
		return nil
	}))
	// left click zooms in about the click, shift-click zooms out
	canvas().Call("addEventListener", "click", js.FuncOf(func(_ js.Value, args []js.Value) any {
		ev := args[0]
		scale := 2.0
		if ev.Get("shiftKey").Bool() {
			scale = 0.5
		}
		queueCommand(cmds, ifs.Command{Op: "rescale", Scale: scale, X: ev.Get("offsetX").Float(), Y: ev.Get("offsetY").Float()})
		return nil
	}))
}

func queueCommand(cmds chan<- ifs.Command, cmd ifs.Command) {
	select {
	case cmds <- cmd:
	default:
		logScreenf("%s dropped: too many pending commands", cmd.Op)
	}
}

// logScreenf appends a formatted message to the log element in the DOM.
func logScreenf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)

	doc := js.Global().Get("document")
	logElem := doc.Call("getElementById", "log")
	logElem.Set("textContent", logElem.Get("textContent").String()+msg+"\n")
}

// logFatalf logs a fatal error to the log window and terminates the program.
func logFatalf(format string, a ...any) {
	logScreenf("FATAL: "+format, a...)
	log.Fatalf(format, a...)
}

func hudSet(id string, v any) {
	js.Global().Get("document").Call("getElementById", id).Set("textContent", v)
}

func hudSetStats(st ifs.Stats) {
	hudSet("count", fmt.Sprintf("%dk", st.Count))
	hudSet("state", map[bool]string{true: "running", false: "stopped"}[st.Running])
	hudSet("tasks", st.Tasks)
	hudSet("threadCount", st.Threads)
	hudSet("size", fmt.Sprintf("%dx%d", st.Width, st.Height))
}
