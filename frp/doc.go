// Package frp is a push/pull reactive engine.
//
// It evaluates four kinds of values over a shared, dynamically rewired graph:
//
//   - [Behavior]: a value defined at every instant. Nodes are either pushed
//     eagerly when a producer changes (Push) or recomputed lazily when sampled
//     (Pull, OnlyPull).
//   - [Stream]: discrete occurrences with no current value.
//   - [Future]: a value that occurs at most once.
//   - [Now]: a description of sampling and effects, interpreted by [RunNow]
//     within a single instant.
//
// Every push from a producer takes a fresh [Tick] from its [System]. All
// propagation caused by that push completes before the next tick is issued,
// and every node is recomputed at most once per tick, so no observer ever
// sees two generations of the same ancestor at once.
//
// A [System] is single threaded. Results of asynchronous effects started with
// [PerformIO] are handed back through the System's inbox and applied by
// [System.Flush], [System.Run] or [AwaitFuture] on the owning goroutine.
//
// Placeholders ([NewBehaviorPlaceholder], [NewStreamPlaceholder],
// [NewFuturePlaceholder]) let a graph refer to nodes that are defined later,
// which is how mutually recursive definitions are built.
package frp
