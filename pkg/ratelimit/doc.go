// Package ratelimit keeps igexport's traffic looking unhurried.
//
// Two mechanisms are provided:
//
// Pacer:
//   - Randomized pause uniform in [Min, Max) between logical requests
//   - Used between the user lookup and the profile call, and between feed pages
//
// RequestLimiter:
//   - Token bucket from golang.org/x/time/rate
//   - Waited before every HTTP attempt, retries included
//   - Disabled when requests_per_minute is 0
//
// Both take a context and return its error when cancelled mid-wait.
package ratelimit
