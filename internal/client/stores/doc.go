// Package stores holds the client-side caches of remote resources: videos,
// playlists, search results and shares.
//
// Each store wraps a client.Client, keeps its collections behind a mutex and
// reports every operation as a Result instead of an error. HTTP calls run
// outside the lock; cache mutations are applied under it once the response
// is in, so readers never observe a half-applied change.
package stores
