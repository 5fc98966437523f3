// Package capital turns a stream of dated transactions into monthly balances,
// KPIs and month closes. Each close freezes a month and anchors the capital
// base of the month after it.
//
// The core functionalities include:
//   - Ledger: the transactions of an owner, kept in stable chronological order
//     and bucketed by calendar month.
//   - Capital base resolution: the starting capital of any month, chained from
//     closed months or taken from the owner's initial capital.
//   - Reduction: a pure fold of a month's transactions into cash, stable asset
//     units, portfolio value, net result, fees and marketing spend.
//   - Month close: an immutable summary written exactly once per month.
//   - Persistence: store interfaces and a JSONL FileStore, human readable and
//     version controllable.
//
// Nothing derived is ever stored except month summaries: every report is
// recomputed from the stores on read. The Book type wires all of the above
// and is what the `capital` command line tool and HTTP server call.
package capital
