// Package layout places the steps of a process graph on a 2D canvas.
//
// Two strategies sit behind the [Strategy] interface:
//
//   - [Linear]: a single centred column, used for simple chains, when the
//     caller forces it, and whenever the graph has a cycle.
//   - [Layered]: a Sugiyama-style layout (rank, order, coordinates) for
//     processes with decision fan-out and fan-in.
//
// [Compute] chooses between them and never fails. Layout is a pure function
// of the graph and the [Config]: identical input yields identical output,
// and no two step boxes ever overlap.
package layout
