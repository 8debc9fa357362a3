// Package cache provides a generic key/value cache with per-entry expiry.
//
// [Cache] is the capability used by the constlist registry to memoize scan
// results. Two backends implement it:
//   - [Memory] keeps entries in a map guarded by a RWMutex
//   - [File] stores one JSON file per entry under a cache directory
//     ($XDG_CACHE_HOME/constlist or the OS-appropriate equivalent)
//
// Keys are 1 to 64 characters of letters, digits, underscore and dot. Every
// operation rejects other keys with an error matching [ErrInvalidKey]; use
// [HashKey] to fold arbitrary material into the key space.
//
// Expiry is checked when an entry is read. Nothing is evicted in the
// background and reads never delete, so [Cache.Has] reports expired entries
// until they are overwritten, deleted or cleared.
//
// A value holding a func or a channel cannot be stored: Set reports false
// instead of failing. [Memory] keeps values as given, or copies them through
// [WithCopy]. [File] stores values JSON-encoded, so callers receive a decoded
// copy.
package cache
