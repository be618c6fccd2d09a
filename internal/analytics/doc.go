// Package analytics implements the delivery-performance aggregation engine
// for e-commerce order data.
//
// The engine takes a filtered order table and deterministically produces a
// fixed set of derived statistical views: headline summary metrics, mean
// delay per region, delivery status distribution, the ten most delayed
// product categories, a pairwise correlation matrix over the physical
// package attributes, a weight-category breakdown, a chronological monthly
// delay trend, and a fixed-domain weekday profile.
//
// # Architecture
//
// The package splits into a filter stage and eight independent view
// computations, one concern per file:
//
//   - types.go: order schema, table snapshot, nullable scalars, view shapes
//   - filter.go: region and date-range narrowing (pure, stable)
//   - engine.go: orchestration, schema validation, concurrent evaluation
//   - summary.go: distinct orders, on-time share, average late delay
//   - region.go: per-region delay and status distribution
//   - category.go: top-N delayed categories with stable ranking
//   - correlation.go: pairwise-complete Pearson matrix
//   - weight.go: weight-band delay and distinct-order counts
//   - trend.go: year-month delay buckets
//   - weekday.go: Monday..Sunday reindexed profile
//   - stats.go: shared mean and correlation helpers
//
// # Contracts
//
// The table is an immutable snapshot: neither the filter nor any view
// mutates it, and repeated invocations on identical input yield identical
// results. Missing data is carried explicitly: a metric that cannot be
// computed comes back as a missing NullFloat64, never as a fabricated zero
// or a thrown error, so presentation code decides how to render "no data".
// Only schema violations (a required column absent from the source) and an
// inverted date range are errors, and both are fatal to the invocation.
//
// # Usage Example
//
//	table := dataset.Load(...) // data source collaborator
//
//	filtered, err := analytics.Filter(table, []string{"SP", "RJ"}, analytics.DateRange{
//		Start: time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
//		End:   time.Date(2018, 12, 31, 0, 0, 0, 0, time.UTC),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	engine := analytics.NewEngine(slog.Default())
//	views, err := engine.ComputeAllViews(ctx, filtered)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("on-time: %.1f%%\n", views.Summary.OnTimePct)
package analytics
