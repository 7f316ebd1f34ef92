// Package engine runs discrete-round stock and flow models.
//
// A Model holds stocks (named accumulators) and flows (directed, rate-governed
// transfers between two stocks). Model.Run validates every formula, builds a
// State from the stocks' initial values and advances it one round at a time,
// returning a snapshot after each round.
//
// # Rates
//
// Every flow carries a Rate, a closed variant with three kinds:
//
//   - Plain moves a fixed amount per round, but only when the source holds at
//     least that amount (all or nothing), capped by destination headroom.
//   - Conversion turns source quantity into destination quantity at a ratio,
//     bounded by destination capacity.
//   - Leak moves a fraction of the source each round.
//
// Conversion and Leak may not originate from an infinite stock.
//
// # Round ordering
//
// State.Advance visits flows in reverse declaration order. Withdrawals are
// applied immediately, so flows sharing a source see each other's depletion,
// while deposits are held back until every flow has been visited, so nothing
// received in a round can leave in the same round. Reverse order is a
// heuristic: it assumes downstream flows are declared after upstream ones.
// There is no dependency analysis; Model.OrderingWarnings reports the pairs
// of flows the heuristic gets wrong.
package engine
