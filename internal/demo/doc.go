// Package demo is a small instrumented application: a few routes that
// exercise default tracking, exclusion and custom metrics, plus the config
// loading and fx wiring used by cmd/httpmetrics-demo.
package demo
