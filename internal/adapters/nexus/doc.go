// Package nexus opens NeXus event files as generic hierarchical containers
//
// Design choices:
// - Callers see slash-separated dataset paths and flat typed arrays only.
// - Absent paths surface as ErrNotFound so readers can tell "missing" from "broken".
// - The HDF5 implementation serializes every library call behind one process-wide lock.
// - Writes never resize a dataset; array length and string width are fixed by the file.
package nexus
