// Package bootstrap assembles a complete generation run from settings.
//
// It wires the batch loader, scheduler, render engine and manifest sink
// together and drives a one-shot lifecycle: load → build graph → execute →
// summarize. OS interrupt signals cancel the run; in-flight tasks are
// drained and the partial result is still returned.
package bootstrap
