/*
Package cudapim is the module root for github.com/oleitersdorf/CUDA-PIM, a
host-side programming model for a PIM (processing-in-memory) accelerator
built from memristive crossbar tiles.

The importable code lives in two packages:

  - pim: the core. A register allocator over a grid of (register index x
    crossbar tile) cells, a generic typed vector abstraction (Vector[T])
    whose storage is a hardware address, the element-wise operator set,
    and a small algorithmic layer (sum, warpBroadcast, warpShift) built
    exclusively from vector operations and intra-warp moves.
  - pimsim: an in-process reference implementation of pim.Driver, the
    hardware ABI pim depends on but never implements. It exists for tests
    and local development, standing in for the gate-level circuit
    simulator a real deployment would link against.

# Hardware model

The accelerator is organized as NumCrossbars independent crossbar tiles,
each CrossbarWidth bit-columns wide by CrossbarHeight rows tall. Every
tile row is further split into CrossbarR register slots, each CrossbarN
bits wide (the warp size): the lanes within a tile that can exchange data
via an intra-tile move.

A Vector[T] is a logical array whose elements live at one register index
across a horizontally contiguous run of tiles. Every arithmetic and bitwise
operator allocates a fresh result vector and issues one gate, Cartesian over
the vector's tile range and row mask; comparisons compose several such gates.
Nothing in pim assumes how a gate is physically realized.

# Concurrency

The programming model is specified as single-threaded cooperative: no
Driver call may block or be reordered relative to program order. The
allocator's shared state is nonetheless guarded by a mutex, so a single
Machine may be driven from more than one goroutine without races, though
the operations it serializes are still logically sequential.
*/
package cudapim
