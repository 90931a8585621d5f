// Package searchapi exposes the search index over HTTP.
//
// Endpoints:
//   - GET /search?q=&page=&pageSize=&type= returns one page of ranked results
//   - GET /health returns the index status, document count and last build time
//
// All responses, including errors, are JSON.
package searchapi
