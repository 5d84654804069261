// Package core holds the transformation logic for both extraction pipelines:
// field extraction, sprint label resolution, worklog window reconciliation,
// row flattening and the issue/sprint join. Fetching and persistence live
// behind the contract interfaces and stay out of this package.
package core
