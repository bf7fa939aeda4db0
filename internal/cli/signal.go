package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
)

// handleInterrupt prints message and exits with status 1 on Ctrl-C. The wait
// between characters is not interruptible, the process just ends.
func handleInterrupt(message string, stderr io.Writer) (stop func()) {
	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, os.Interrupt)

	go func() {
		select {
		case <-sigs:
			fmt.Fprintf(stderr, "\n\n%s\n", paint(stderr, colorYellow, message))
			exit(1)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}
