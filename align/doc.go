// Package align reconciles the variant list of an LDGM with the variant list
// of the empirical data into one shared index space.
//
// The graph side assigns each variant (rsid) a brick: a node of the LDGM that
// may be shared by several variants in perfect LD. The data side lists the
// variants for which correlations or genotypes exist. Align produces:
//
//   - the identifier intersection, in data-side order;
//   - one representative data row per covered brick (the first one met in
//     data-side order; further proxies only mark the brick as covered);
//   - a dense 0-based renumbering of the covered bricks, in ascending
//     original brick order;
//   - a mask of graph bricks with no data (the nodes graph surgery removes);
//   - allele frequencies and MAF = min(AF, 1-AF) for every representative,
//     taken from the graph list or the data list;
//   - the correlation matrix restricted to representatives, when one is given.
package align
