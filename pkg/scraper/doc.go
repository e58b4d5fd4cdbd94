// Package scraper provides the fallback events source: it fetches a public listings page
// and extracts the schema.org Event objects embedded as JSON-LD.
//
// Pages without JSON-LD are parsed from their event card markup instead. Results are
// normalized into the canonical event shape and capped at a fixed count.
package scraper
