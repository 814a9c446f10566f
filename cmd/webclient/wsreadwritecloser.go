//go:build js && wasm

package main

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"syscall/js"
)

var errWSClosed = errors.New("websocket closed")

// wsConn is the byte stream an irpc endpoint runs over, carried by a browser
// WebSocket. Incoming messages are queued without blocking the JS event loop.
type wsConn struct {
	ws        js.Value
	listeners map[string]js.Func

	mu      sync.Mutex
	queue   [][]byte
	pending []byte
	err     error // set once the socket is gone
	ready   chan struct{}

	closeOnce sync.Once
}

// dialWS opens a WebSocket to url and waits until it is connected.
func dialWS(url string) (*wsConn, error) {
	c := &wsConn{
		ws:        js.Global().Get("WebSocket").New(url),
		listeners: make(map[string]js.Func),
		ready:     make(chan struct{}, 1),
	}
	c.ws.Set("binaryType", "arraybuffer")

	opened := make(chan error, 1)
	c.on("open", func(js.Value) {
		opened <- nil
	})
	c.on("error", func(js.Value) {
		c.fail(io.ErrUnexpectedEOF)
		select {
		case opened <- fmt.Errorf("connect %s: %w", url, io.ErrUnexpectedEOF):
		default:
		}
	})
	c.on("close", func(ev js.Value) {
		logScreenf("connection closed (code %d)", ev.Get("code").Int())
		c.fail(io.EOF)
	})
	c.on("message", func(ev js.Value) {
		u8 := js.Global().Get("Uint8Array").New(ev.Get("data"))
		b := make([]byte, u8.Get("byteLength").Int())
		js.CopyBytesToGo(b, u8)
		c.push(b)
	})

	if err := <-opened; err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// on installs handler for the socket event and keeps the callback for release.
func (c *wsConn) on(event string, handler func(ev js.Value)) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		handler(args[0])
		return nil
	})
	c.listeners[event] = f
	c.ws.Call("addEventListener", event, f)
}

func (c *wsConn) push(b []byte) {
	c.mu.Lock()
	c.queue = append(c.queue, b)
	c.mu.Unlock()
	c.wake()
}

func (c *wsConn) fail(err error) {
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
	c.wake()
}

func (c *wsConn) wake() {
	select {
	case c.ready <- struct{}{}:
	default:
	}
}

// Read drains queued messages before reporting the socket error.
func (c *wsConn) Read(p []byte) (int, error) {
	for len(c.pending) == 0 {
		c.mu.Lock()
		if len(c.queue) > 0 {
			c.pending, c.queue = c.queue[0], c.queue[1:]
			c.mu.Unlock()
			break
		}
		err := c.err
		c.mu.Unlock()
		if err != nil {
			return 0, err
		}
		<-c.ready
	}

	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

func (c *wsConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	err := c.err
	c.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("write: %w", errWSClosed)
	}

	u8 := js.Global().Get("Uint8Array").New(len(p))
	js.CopyBytesToJS(u8, p)
	c.ws.Call("send", u8)
	return len(p), nil
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() {
		c.fail(errWSClosed)
		c.ws.Call("close")
		// the close event may still be queued; detach before releasing
		for event, f := range c.listeners {
			c.ws.Call("removeEventListener", event, f)
			f.Release()
		}
	})
	return nil
}
