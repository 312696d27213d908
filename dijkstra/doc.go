// Package dijkstra computes bounded shortest paths on distance-weighted
// graphs and builds path-closure LDGMs from them.
//
// Overview:
//
//   - Dijkstra finds the minimum-length path from one source node to every
//     reachable node in O((V + E) log V), using a lazy-decrease-key min-heap.
//   - MaxDistance stops exploration once the nearest unsettled node lies
//     beyond the cap, which is what makes per-source closure affordable on
//     large brick graphs.
//   - Closure runs a bounded Dijkstra from every brick and connects the brick
//     to every other brick reached within the threshold, with weight
//     1/(1+d). Thresholding that graph at the same t recovers exactly the
//     pairs at distance <= t.
//
// Graph model:
//
//   - Nodes are 0..n-1; arcs carry non-negative lengths (zero allowed).
//   - Graphs can be directed or undirected; a brick may own distinct entry
//     ("in") and exit ("out") nodes through Terminal.
//
// Determinism:
//
//   - Heap ties are broken by node index, and closure sources are merged in
//     brick order, so results do not depend on the worker count.
package dijkstra
