/*
Package observability provides tools for monitoring an arbor bot.

It includes Prometheus collectors for leaf invocations, selection exhaustion and
delivered responses, lifecycle hooks that feed them (or a logger), and an
Instrument transformer for timing individual leaves.
*/
package observability
