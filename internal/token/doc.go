// Package token defines the parsed document tree and the tree builder.
// Invariants:
//   - Every container's children are built bottom-up: a token's own children
//     are complete before its siblings are grouped.
//   - Grouping runs in two passes per container. ConsumeTokens may absorb
//     following siblings; ConsumeNeighbours may attach or swallow the nodes
//     produced by the first pass.
//   - No division marker survives in a finished container.
//   - Tokens created through the registry are the most-derived class of their
//     kind. Resource requests are filed for that final token only.
//   - Capability checks go through As so that override wrappers stay
//     transparent.
package token
