// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package session keeps one wizard and one ballot per browser, keyed by an
// opaque UUID token sent in the URL. Idle voters are swept after a TTL.
package session
