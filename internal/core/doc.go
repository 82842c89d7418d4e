// Package core provides the importer framework used to prepare project data
// for a simulation run.
//
// This package contains the domain logic independent of any transport. It can
// be used by the readiness API, the projectcheck CLI, or tests without
// modification.
//
// # Importer Registry
//
// Importers are registered at init time using [Register]. Each
// [ImporterDefinition] declares the tables it owns, the columns of each table
// with their filter rules, and a check that inspects project data:
//
//	core.Register(ImporterDefinition{
//	    Info: ImporterInfo{Name: "Link Source Types", NodeName: "linksourcetypehour"},
//	    Tables: []TableSpec{{
//	        Name: "LinkSourceTypeHour",
//	        Columns: []ColumnSpec{
//	            {Name: "linkID"},
//	            {Name: "sourceTypeID", LookupTable: "SourceUseType", Filter: FilterSourceType},
//	        },
//	    }},
//	    Check: checkLinkSourceTypeHour,
//	})
//
// Reading import files, writing templates and exporting data belong to the
// import framework. This package only supplies the metadata they consume
// ([ColumnMapping], [Headers], [ValidateCell]).
//
// # Project Data Checks
//
// A check returns a [ProjectStatus]: ready or not ready plus ordered
// diagnostic messages. Data problems are never errors; they are collected in a
// [QualityLog]. Errors are reserved for infrastructure failures (unreachable
// database, missing table) and are returned to the caller without retry.
//
// Every query runs through [ForEachRow], which releases its cursor before the
// next query starts. [Service] bounds concurrent checks with a
// [CheckLimiter], since each check holds one pooled connection.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - DB001-DB006: Database errors (connections, timeouts, missing tables)
//   - CHK001-CHK004: Check errors (cancelled, timed out, bad run selections, busy)
//   - IMP001: Unknown importer
package core
