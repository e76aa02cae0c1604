// Command hazardctl is the operator CLI for the hazard normalizer.
//
// Usage:
//
//	hazardctl detect "40.7128, -74.0060"
//	hazardctl normalize reports.json
//	cat report.json | hazardctl normalize
//	hazardctl validate data/mock/hazard_reports.json
//	DATABASE_URL=postgres://... hazardctl backfill --page-size 200
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
