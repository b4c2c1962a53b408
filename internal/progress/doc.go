// Package progress carries run milestones from the background capture worker
// to the foreground control thread. The Hub is the thread-safe channel the
// concurrency model requires: the worker emits without blocking, and sinks
// (log lines, the progress-bar tally) consume on their own goroutine.
package progress
