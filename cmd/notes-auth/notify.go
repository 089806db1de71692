package main

import (
	"fmt"
	"os"
)

// terminalNotifier prints operation outcomes to stderr so they never mix
// with machine-readable output on stdout.
type terminalNotifier struct{}

func newTerminalNotifier() *terminalNotifier {
	return &terminalNotifier{}
}

func (n *terminalNotifier) Success(title, message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
}

func (n *terminalNotifier) Error(title, message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
}
