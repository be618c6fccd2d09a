// Package dataset loads the e-commerce order table from CSV and derives the
// columns the analytics engine consumes.
//
// The loader is the engine's data source collaborator: it discovers columns
// by header name, parses timestamps, and fills in the derived fields when
// the source does not carry them pre-computed: delivery delay and status
// from the delivered and estimated dates, package volume from the three
// dimensions, the weight band from the weight, and the purchase weekday from
// the purchase timestamp. The resulting analytics.Table records which schema
// columns could be materialized, so downstream computations can fail fast on
// a schema gap instead of silently producing empty views.
package dataset
