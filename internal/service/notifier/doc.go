// Package notifier delivers Discord-style embed notifications over webhook
// URLs. Delivery is fire-and-forget: an empty endpoint is a silent no-op and
// a failed POST is logged, never surfaced to the run outcome.
package notifier
