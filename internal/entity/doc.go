// Package entity provides stable vessel handles issued by the host.
//
// A [Handle] is an index plus a generation. The host owns a [Registry]
// that creates and destroys handles; every per-vessel store in this module
// subscribes to the registry and drops its entries when a handle is
// destroyed, so nothing outlives the vessel it was computed for.
//
// # Example
//
//	reg := entity.NewRegistry()
//	h := reg.Create("BOAT medi small (40)(Clone)")
//	tables.Watch(reg)
//	...
//	reg.Destroy(h) // tables drops its entry for h
package entity
