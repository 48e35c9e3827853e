// Package auth classifies incoming credentials into a Principal and
// enforces role-based access on HTTP routes. Bearer tokens are HS256 JWTs
// carrying a roles claim; a shared API key maps to the ingest-client
// principal. Requests with no usable credential proceed as an anonymous
// viewer and are rejected at the route level.
package auth
