// Package rpc is the request/response transport shared by the FIB agent and
// decision clients.
//
// Each call opens one TCP connection, writes one CBOR-encoded Request,
// half-closes the write side and reads one Response. The whole exchange,
// dial included, is bounded by a single timeout. Transport failures are
// returned as coded errors (see package errors) so callers can tell an
// unreachable peer from a timeout, a garbled answer or an explicit refusal.
//
// The package also carries the wire model for routes (Prefix, NextHop,
// Route) and a small Server used by in-process fakes.
package rpc
