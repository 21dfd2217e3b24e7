// Package git reads the state of the repository a site lives in: the
// checked-out branch used for source links, the HEAD commit reported with
// build events, and a content hash of the working tree used by watch mode to
// skip rebuilds when nothing relevant changed.
package git
