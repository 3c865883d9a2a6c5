// Package workflow drives long running archive operations.
//
// It provides the three pieces every operation shares: a Counter that turns
// per-entry completions into a non-decreasing 0-100 percentage, Join which
// fans a task out once per entry without a concurrency cap and waits for all
// of them, and Slot which holds the current Operation and moves it through
// Idle -> Loading -> Done | Failed.
package workflow
