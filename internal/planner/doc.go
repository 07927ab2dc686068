// Package planner validates education plans against the prerequisite and co-requisite text
// attached to each course.
//
// Dependencies are not declared structurally. They are mined from free text by looking for
// known course codes as substrings, so "Requires MATH101 and CHEM100" depends on MATH101 and
// CHEM100 whenever those codes appear in the catalog or the plan. Terms are free-text
// (year, semester) labels ranked through fixed tables with a numeric fallback.
//
// Everything here is pure and recomputed from scratch on each call. Plans hold tens of
// courses, so no dependency graph is cached.
package planner
