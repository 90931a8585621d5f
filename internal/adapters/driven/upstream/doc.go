// Package upstream provides the outbound HTTP client shared by the router and
// the content store adapter.
//
// A Client pairs an *http.Client with a status-acceptance policy. Statuses the
// policy accepts are returned as a Response; any other status yields a
// *StatusError wrapping domain.ErrUpstreamStatus, and transport failures wrap
// domain.ErrUpstreamUnavailable. Callers can therefore tell "the backend
// answered" apart from "the backend could not be reached".
//
// Bodies are read fully into memory; streaming is not supported.
package upstream
