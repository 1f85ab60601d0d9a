// Package dnserr defines the sentinel error kinds shared across the codec,
// resolver and cache packages so callers can classify a failure with
// errors.Is instead of matching strings.
package dnserr

import "errors"

var (
	// ErrInputTruncated means wire bytes ended mid-field.
	ErrInputTruncated = errors.New("dns: input truncated")

	// ErrMalformedName means a label length byte had invalid high bits, the
	// name exceeded 255 wire bytes, or a compression pointer targeted an
	// invalid offset.
	ErrMalformedName = errors.New("dns: malformed name")

	// ErrUpstreamTimeout means an outgoing query to an upstream server did
	// not receive a reply within the configured deadline.
	ErrUpstreamTimeout = errors.New("dns: upstream timeout")

	// ErrUpstreamUnreachable means an outgoing query failed at the network
	// or codec layer before a timeout could even apply.
	ErrUpstreamUnreachable = errors.New("dns: upstream unreachable")

	// ErrResolutionFailed means the referral chain was exhausted or looped
	// without ever reaching an authoritative answer.
	ErrResolutionFailed = errors.New("dns: resolution failed")

	// ErrCacheCorrupt means the persistent cache snapshot could not be
	// read back; callers should treat this as an empty cache, not a fatal
	// condition.
	ErrCacheCorrupt = errors.New("dns: cache corrupt")
)
