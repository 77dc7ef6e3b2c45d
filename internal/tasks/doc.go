// Package tasks implements playlist mutations on top of the capability
// client and the query cache.
//
// The core abstraction is [Engine], which orchestrates the three-step video
// move (resolve source entry, insert into target, delete from source) along
// with playlist create, rename, and delete. Every mutation ends by
// invalidating the affected cache entries so stale listings never outlive
// the operation. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks
