// Package http implements HTTP request handlers for the delivery analytics
// service. It provides a thin layer between HTTP transport and business
// logic: handlers parse and validate requests, delegate to the service
// layer, and transform service errors into RFC 7807 responses.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Engine
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Endpoints
//
//	GET  /api/report            computed views for a region/date filter
//	GET  /api/report/dimensions filterable regions and date bounds
//	POST /api/report/export     write CSV/XLSX/JSON files server-side
//	POST /api/dataset/reload    re-read the dataset from disk
//	GET  /api/health            health status
//	GET  /api/version           build information
package http
