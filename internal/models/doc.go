// Package models defines domain entities for the playlist organizer.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): lightweight structs representing remote
// service data
//   - [Playlist] : playlist metadata from the hosting API
//   - [Video] : playlist entry metadata, including the resource-binding id
//     ([Video.ItemID]) needed to remove the entry from its playlist
//
// 2. Persistent Entities: database-backed records with full lifecycle
// management
//   - [Session] : sign-in record carrying the OAuth token pair
//
// Persistent entities implement the [Model] interface providing IDs,
// timestamps, and validation. Collection helpers ([FilterVideos],
// [SortVideosByTitle], [SortVideosByDate]) implement the video pane's
// search and sort semantics and are shared by the CLI and TUI.
package models
