// Package site writes the static artifacts of a built corpus: one HTML file
// per page (or a redirect stub), tag pages and their index, the archive, the
// sitemap, the Atom feed, robots.txt and copies of referenced images.
//
// Generation is a fixed sequence of stages. Every failure is fatal except an
// Atom feed that does not parse back; that error is logged, the remaining
// stages still run, and the error is returned at the end.
package site
