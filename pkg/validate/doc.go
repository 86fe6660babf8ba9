// Package validate dispatches field validators through a fingerprint-keyed
// result cache with TTL expiry. A Context scopes the registry, cache, and
// pending bookkeeping to one form session; validator faults degrade into
// invalid results instead of propagating.
package validate
