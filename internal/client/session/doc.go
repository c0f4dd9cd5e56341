// Package session holds the client's bearer-token session.
//
// The token is the only source of truth: claims are decoded from it on every
// change and never stored on their own. A token whose "exp" claim is not in
// the future, or that cannot be decoded, never counts as authenticated and is
// discarded as soon as it is noticed.
//
// Every token change is pushed synchronously into the gateway's default
// headers (see HeaderSetter), and Interceptor re-checks expiry per request,
// so no request leaves with a stale or expired token.
package session
