// Package tour holds headless renditions of the tutorial pages: a counter
// with a progress bar, input binding, control flow, parent/child
// communication, children passing and an async fetch.
//
// Each page mounts into a scope and renders text lines into a Screen.
// Every line is bound through an Effect, so the screen always shows what
// the signals currently hold:
//
//	screen := tour.NewScreen()
//	home, err := tour.MountHome(scope, screen)
//	home.Increment()
//	fmt.Print(screen)
//
// Play runs a page's scripted steps against a runtime and writes a
// transcript, which is what `signals tour` prints.
package tour
