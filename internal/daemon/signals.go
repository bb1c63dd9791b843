package daemon

import (
	"os"
	"os/signal"
	"syscall"
)

// Notify installs the signal-notification adapter. SIGTERM and SIGINT map to
// termination, SIGUSR1 to acquire, SIGUSR2 to release. The handler context
// does nothing but forward; all real work happens in the event loop.
//
// The returned stop function uninstalls the handler; the request channel is
// closed once drained.
func Notify() (<-chan Request, func()) {
	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGUSR1, syscall.SIGUSR2)

	requests := make(chan Request, 4)
	go func() {
		defer close(requests)
		for sig := range sigCh {
			switch sig {
			case syscall.SIGTERM, syscall.SIGINT:
				requests <- RequestTerminate
			case syscall.SIGUSR1:
				requests <- RequestAcquire
			case syscall.SIGUSR2:
				requests <- RequestRelease
			}
		}
	}()

	stop := func() {
		signal.Stop(sigCh)
		close(sigCh)
	}
	return requests, stop
}
