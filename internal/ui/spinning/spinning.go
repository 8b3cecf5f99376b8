// Package spinning provides a friendly spinning clock (or some other spinning symbols)
// to use while the cat is thinking, and the interrupt handling of the terminal programs.
package spinning

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"k8s.io/klog/v2"
)

// Spinning animates a spinner with a label and the elapsed time, until Done is called.
type Spinning struct {
	wg       sync.WaitGroup
	cancel   func()
	start    time.Time
	elapsed  time.Duration
	w        io.Writer
	theme    []rune
	interval time.Duration
}

var (
	ThemeAscii = []rune(`|/-\`)
	ThemeMoon  = []rune("🌑🌒🌓🌔🌕🌖🌗🌘")
	ThemeCat   = []rune("🐱😺😸😹😻😼😽🙀")

	// Theme defaults to ThemeCat, but it can be set to anything else before calling New.
	Theme = ThemeCat

	// Interval between frames of the spinner.
	Interval = 250 * time.Millisecond
)

// SafeInterrupt will capture SigInt (Ctrl+C) and SigTerm and call the provided onInterrupt.
// If the program haven't exited after gracePeriod, it will call Reset to reset the terminal
// and exit.
func SafeInterrupt(onInterrupt func(), gracePeriod time.Duration) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigChan
		fmt.Println()
		klog.Errorf("Got interrupted (signal %q), shutting down... (%s)", s, gracePeriod)
		if onInterrupt != nil {
			go onInterrupt()
		}

		// Wait for gracePeriod before exiting.
		time.Sleep(gracePeriod)
		Reset()
		klog.Fatalf("Graceful shutting down %s period expired, exiting.", gracePeriod)
	}()
}

// Reset terminal: make cursor visible, restore default terminal colors.
func Reset() {
	fmt.Print("\033[?25h\033[39;49;0m\n") // Restore cursor and colors.
}

// New starts a spinning display on os.Stdout, prefixed with label, that runs on a separate goroutine.
// It stops when Spinning.Done is called or ctx is cancelled.
func New(ctx context.Context, label string) *Spinning {
	return NewWithWriter(ctx, os.Stdout, label)
}

// NewWithWriter is like New, but it writes the animation to w.
func NewWithWriter(ctx context.Context, w io.Writer, label string) *Spinning {
	s := &Spinning{
		start:    time.Now(),
		w:        w,
		theme:    Theme,
		interval: Interval,
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx, label)
	return s
}

func (s *Spinning) run(ctx context.Context, label string) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	// Hide cursor while spinning, and restore it at the end.
	_, _ = fmt.Fprint(s.w, "\033[?25l")
	defer func() { _, _ = fmt.Fprint(s.w, "\033[?25h") }()

	for frame := 0; ; frame++ {
		symbol := s.theme[frame%len(s.theme)]
		// Carriage return and clear line, so each frame overwrites the previous.
		_, _ = fmt.Fprintf(s.w, "\r\033[2K%s %c %.1fs", label, symbol, time.Since(s.start).Seconds())
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprint(s.w, "\r\033[2K")
			return
		case <-ticker.C:
			// continue
		}
	}
}

// Done stops the spinner and waits for it to clear its line. It returns the time elapsed since the spinner started.
// It can be called more than once.
func (s *Spinning) Done() time.Duration {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		s.wg.Wait()
		s.elapsed = time.Since(s.start)
	}
	return s.elapsed
}
