// Package services implements the business logic layer of the delivery
// analytics application. It sits between HTTP handlers (or CLI commands)
// and the analytics engine, keeping business rules centralized and testable.
//
// # Architecture
//
// Services follow these principles:
//
//  1. Context propagation for cancellation and tracing
//  2. Dependency injection for loose coupling
//  3. Domain-focused methods that encapsulate business rules
//
// # Available Services
//
//   - ReportService: loads the order dataset and computes filtered reports
//   - HealthService: provides system health checks
//
// # Error Handling
//
// Services return domain errors from the analytics package unchanged so
// callers can map them to transport-level responses: ErrInvalidRange for
// inverted date ranges, SchemaError for missing dataset columns, and
// ErrDatasetNotLoaded when a report is requested before a dataset load.
package services
