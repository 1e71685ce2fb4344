package utils

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Zero-downtime restart: SIGUSR2 forks a child that inherits the listener
// on fd 3, then the parent drains and exits. SIGTERM drains and exits.
const (
	gracefulEnvKey     = "MEOW_GRACEFUL"
	gracefulListenerFd = 3

	defaultReadTimeout  = 60 * time.Second
	defaultWriteTimeout = 60 * time.Second
	shutdownTimeout     = 30 * time.Second
)

// graceServer wraps http.Server with listener inheritance and signal handling.
type graceServer struct {
	srv       *http.Server
	listener  net.Listener
	inherited bool
	signals   chan os.Signal
	drained   chan struct{}
}

// GraceServer serves handler on addr with graceful shutdown and restart.
// Blocks until the server has fully drained.
func GraceServer(addr string, handler http.Handler) error {
	g := &graceServer{
		srv: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		inherited: os.Getenv(gracefulEnvKey) != "",
		signals:   make(chan os.Signal, 1),
		drained:   make(chan struct{}),
	}

	ln, err := g.listen(addr)
	if err != nil {
		return err
	}
	g.listener = ln

	go g.handleSignals()
	if err := g.srv.Serve(ln); err != http.ErrServerClosed {
		return err
	}
	// Serve returned because of Shutdown; wait for in-flight requests to drain.
	<-g.drained
	return nil
}

// listen binds a fresh socket, or re-opens the one inherited from the parent.
func (g *graceServer) listen(addr string) (net.Listener, error) {
	if g.inherited {
		f := os.NewFile(gracefulListenerFd, "")
		ln, err := net.FileListener(f)
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		return ln, nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

func (g *graceServer) handleSignals() {
	signal.Notify(g.signals, syscall.SIGTERM, syscall.SIGUSR2)
	for sig := range g.signals {
		switch sig {
		case syscall.SIGTERM:
			Sugar.Info("received SIGTERM, draining HTTP server")
			g.shutdown()
			return
		case syscall.SIGUSR2:
			Sugar.Info("received SIGUSR2, restarting HTTP server")
			pid, err := g.forkChild()
			if err != nil {
				Sugar.Errorf("restart failed, continuing to serve: %v", err)
				continue
			}
			Sugar.Infof("child started with pid=%d, draining old server", pid)
			g.shutdown()
			return
		}
	}
}

func (g *graceServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := g.srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
	} else {
		Sugar.Info("HTTP server drained")
	}
	close(g.drained)
}

// forkChild starts a replacement process that inherits the listening socket.
func (g *graceServer) forkChild() (int, error) {
	tcpLn, ok := g.listener.(*net.TCPListener)
	if !ok {
		return 0, fmt.Errorf("listener is not *net.TCPListener")
	}
	f, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("get listener file: %w", err)
	}

	env := make([]string, 0, len(os.Environ())+1)
	for _, e := range os.Environ() {
		if e != gracefulEnvKey+"=1" {
			env = append(env, e)
		}
	}
	env = append(env, gracefulEnvKey+"=1")

	pid, err := syscall.ForkExec(os.Args[0], os.Args, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), f.Fd()},
	})
	if err != nil {
		return 0, fmt.Errorf("forkexec: %w", err)
	}
	return pid, nil
}
