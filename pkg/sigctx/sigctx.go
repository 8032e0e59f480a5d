// Package sigctx ties a context to the termination signals of the process.
package sigctx

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Signals stop the process. SIGHUP is included because the client loses
// its terminal with it.
var Signals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
	syscall.SIGHUP,
}

func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, Signals...)
}
