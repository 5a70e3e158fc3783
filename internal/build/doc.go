// Package build provides the canonical generation pipeline for docsite.
//
// A run discovers the site's pages and assets, computes every page's head
// tags and writes the requested artifacts: the head manifest read by the site
// framework, the framework configuration and sitemap.xml. All execution paths
// (one-shot CLI commands, watch mode, tests) route through Service.
package build
