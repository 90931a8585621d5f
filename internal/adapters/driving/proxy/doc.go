// Package proxy implements folio's public HTTP router.
//
// The router forwards admin traffic to the frontend verbatim, sends search
// requests to the frontend's search page and serves published content paths
// known to the route cache. Unknown paths get the frontend's not-found page
// with status 404. Upstream answers are relayed with their status, headers
// and body; bodyless statuses never carry a body.
package proxy
