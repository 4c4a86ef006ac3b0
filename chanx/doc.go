// Package chanx provides plumbing utilities built on top of gochan
// channels.
//
// The core gochan package deliberately keeps [gochan.Channel] small. chanx
// layers the recurring pipeline patterns on top of it:
//
//   - [Drain]: collects everything a channel will ever deliver.
//   - [Merge]: fan-in of several same-typed channels through one
//     [gochan.Selector].
//   - [Map]: transforms values through a function in a pipeline stage.
//   - [Filter]: passes only values matching a predicate.
//
// Every function that spawns a goroutine ties its lifetime to the channels
// it consumes: the goroutine exits once its inputs are closed and drained,
// and closes its own output so downstream stages can wind down the same
// way. Stages never close their inputs; that stays with the producer.
package chanx
