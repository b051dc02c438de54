// Package pagescout provides in-page content indexing and bounded
// same-site crawling for a browser tab-search popup. The page indexer
// turns a document tree into a flat list of ranked, scroll-targetable
// entries; the scope crawler walks a (host, first-path-segment) cluster
// of pages breadth-first and answers searches over what it indexed.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., http/,
// goquery/, rod/) or their role (index/, crawl/).
package pagescout
