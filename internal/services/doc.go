// Package services defines the capability surface for playlist providers and
// its two implementations: YouTubeService, backed by the YouTube Data API v3,
// and InMemoryService, a process-local double for offline work.
//
// Callers pick the implementation at construction time. Nothing downstream
// inspects the concrete type; all behavior flows through the Service
// interface and the RemoteAPIError taxonomy.
package services
