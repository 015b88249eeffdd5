package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/panjf2000/ants/v2"
	gnet "github.com/panjf2000/gnet/v2"

	"github.com/J1407B-K/mpart/mpart"
)

const shutdownTimeout = 5 * time.Second

// uploadConn bridges the event loop to the decoder: OnTraffic writes raw
// connection bytes into the pipe, a pool worker reads the other end.
type uploadConn struct {
	w *io.PipeWriter
}

type uploadHandler struct {
	gnet.BuiltinEventEngine

	pool            *ants.Pool
	shutdownSignals []os.Signal

	engine gnet.Engine
}

func newUploadHandler(workers int, signals []os.Signal) (*uploadHandler, error) {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	return &uploadHandler{pool: pool, shutdownSignals: signals}, nil
}

func (h *uploadHandler) run(protoAddr string) error {
	defer h.pool.Release()
	log.Printf("[mpart] upload listener on %s", protoAddr)
	return gnet.Run(h, protoAddr)
}

func (h *uploadHandler) OnBoot(engine gnet.Engine) (action gnet.Action) {
	h.engine = engine
	if len(h.shutdownSignals) > 0 {
		go h.handleSignals()
	}
	return gnet.None
}

func (h *uploadHandler) handleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, h.shutdownSignals...)
	sig := <-sigCh
	log.Printf("[mpart] shutting down: %v", sig)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := h.engine.Stop(ctx); err != nil {
		log.Printf("[mpart] stop error: %v", err)
	}
}

func (h *uploadHandler) OnOpen(c gnet.Conn) (out []byte, action gnet.Action) {
	pr, pw := io.Pipe()
	c.SetContext(&uploadConn{w: pw})
	remote := c.RemoteAddr().String()
	if err := h.pool.Submit(func() { decodeUpload(c, pr, remote) }); err != nil {
		pw.CloseWithError(err)
		log.Printf("[mpart] %s: submit: %v", remote, err)
		return nil, gnet.Close
	}
	return nil, gnet.None
}

func (h *uploadHandler) OnTraffic(c gnet.Conn) gnet.Action {
	ctx, _ := c.Context().(*uploadConn)
	if ctx == nil {
		return gnet.Close
	}
	n := c.InboundBuffered()
	if n == 0 {
		return gnet.None
	}
	data, err := c.Next(n)
	if err != nil {
		return gnet.Close
	}
	// Pipe writes return once the decode worker has consumed the bytes, so
	// data never outlives this event-loop iteration.
	if _, err := ctx.w.Write(data); err != nil {
		return gnet.Close
	}
	return gnet.None
}

func (h *uploadHandler) OnClose(c gnet.Conn, err error) (action gnet.Action) {
	if ctx, ok := c.Context().(*uploadConn); ok && ctx.w != nil {
		_ = ctx.w.Close()
	}
	return gnet.None
}

// decodeUpload walks one connection's multipart message and acks the result.
func decodeUpload(c gnet.Conn, r *io.PipeReader, remote string) {
	defer r.Close()
	parts, err := walkParts(r, remote)
	if err != nil {
		log.Printf("[mpart] %s: decode failed: %v", remote, err)
		_ = c.AsyncWrite([]byte("ERR "+err.Error()+"\r\n"), nil)
		_ = c.Close()
		return
	}
	_ = c.AsyncWrite([]byte(fmt.Sprintf("OK %d parts\r\n", parts)), nil)
	_ = c.Close()
}

func walkParts(r io.Reader, remote string) (int, error) {
	part, err := mpart.NewPart(r)
	if err != nil {
		return 0, err
	}
	parts := 0
	for part != nil {
		n, err := io.Copy(io.Discard, part)
		if err != nil {
			return parts, err
		}
		log.Printf("[mpart] %s: part %d name=%q filename=%q type=%q bytes=%d",
			remote, parts, part.Name, part.FileName, part.ContentType, n)
		parts++
		if part, err = part.Next(); err != nil {
			return parts, err
		}
	}
	return parts, nil
}
