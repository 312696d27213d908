// Package surgery removes nodes from a weighted LDGM while patching the
// paths that ran through them.
//
// Removing node v connects every pair (u, w) of v's current neighbours with
//
//	W[u][w] = max(W[u][w], W[u][v] · W[v][w])
//
// so a path u–v–w survives as a direct edge whose strength decays
// multiplicatively. Nodes are eliminated one at a time in ascending index
// order; a neighbour that is itself scheduled for removal still receives
// patched edges and forwards them when its own turn comes, so chains of
// removed nodes stay bridged.
//
// Guarantees:
//
//   - Surviving edges are never weakened.
//   - A removed node with no neighbours changes nothing.
//   - The input graph is never modified; Reduce returns a new value
//     renumbered densely over the survivors.
package surgery
