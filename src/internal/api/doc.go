// Package api provides the read-only diagnostics HTTP API started by
// "fibctl serve".
//
// Every request runs one engine operation with fresh connections to the
// agent, the decision module or the kernel. Nothing is cached between
// requests.
//
// # Endpoints
//
//	GET /api/v1/routes          agent route table
//	GET /api/v1/routes/linux    kernel routes owned by the routing protocol
//	GET /api/v1/counters        agent counters
//	GET /api/v1/validate        decision vs agent
//	GET /api/v1/validate/linux  agent vs kernel
//	GET /health                 agent reachability and loaded config hash
//	GET /metrics                Prometheus metrics
//
// # Response Format
//
// All successful responses wrap data in a "data" field:
//
//	{
//	  "data": { /* response payload */ }
//	}
//
// Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "agent_timeout",
//	    "message": "Human-readable error message"
//	  }
//	}
//
// A validation mismatch is not an error: the validate endpoints answer 200
// with "equal": false and the report.
package api
