// Package document defines the Document model and loads it from a Markdown
// source file with YAML front matter.
package document
