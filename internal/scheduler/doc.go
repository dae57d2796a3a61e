// Package scheduler fires power events at their trigger times. It
// implements a single-goroutine scheduler using a min-heap of wake
// entries sorted by wake time, with a 60-second max-sleep-cap to handle
// NTP steps, DST transitions, and system sleep (macOS monotonic clock
// pause).
//
// The run goroutine owns the event registry; schedule, cancel, and list
// requests enter through channels and are answered on per-request reply
// channels, so no lock ever guards event state. Wake entries carry only
// an event id: when one fires, the event is re-read from the registry
// and entries whose event is gone are dropped. A cancellation that
// races a wake therefore always wins.
//
// Pre-notification countdowns are wake entries too: entering the
// countdown pushes a wake one second out, and each tick re-pushes until
// the remaining seconds reach zero and the action executes.
package scheduler
