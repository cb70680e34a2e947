// Package core provides the business logic for multi-source table consolidation.
//
// This package is the heart of the pipeline, containing all domain logic
// independent of any UI or transport layer. It can be used by CLI tools,
// schedulers, or tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Table: An in-memory column-ordered table of typed cells, the unit of
//     data every phase consumes and produces.
//   - Pipeline: The orchestrator that runs sources through extract, map,
//     consolidate, transform, and load.
//   - Ledger: The per-run record of errors, warnings, and corrections,
//     persisted as error_log.json next to the output.
//   - DBLoader: An optional PostgreSQL destination mirroring the output.
//
// # Running a Pipeline
//
// Sources are registered with a column mapping, then the whole run executes
// in one call:
//
//	p := core.NewPipeline("data", "output", nil, logger)
//	p.RegisterSource("hr_export", "hr.csv", core.Mapping{
//	    {From: "emp_id", To: "employee_id"},
//	    {From: "fname", To: "first_name"},
//	})
//	result, err := p.Run(ctx, "consolidated_output.csv", core.DefaultOptions())
//
// A failed source does not abort the run; each phase proceeds when at least
// one source survives, and the final status reports where a run stopped.
//
// # Failure Reporting
//
// Phases report through the ledger and the pipeline status rather than
// returned errors. Run returns a non-nil error only when an output could
// not be persisted: the data file, the database destination, or the error
// log itself. Technical errors shown to users are mapped to friendly
// messages using [MapError]. Each error category has a unique code for
// support reference:
//
//   - FILE001-FILE007: Source file errors (format, parsing, access)
//   - RUN001-RUN004: Run file errors (YAML, layouts, aggregation)
//   - CFG001-CFG002: Configuration errors
//   - OUT001-OUT002: Output errors
//   - DB001-DB007: Database destination errors
//
// # Corrections
//
// The transform phase fixes data rather than rejecting it. Every repair is
// recorded as a ledger correction with the number of rows it touched:
// added missing columns, coerced date and salary types, removed duplicate
// rows, and filled missing values.
package core
