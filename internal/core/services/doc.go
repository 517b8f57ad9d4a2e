// Package services implements the driving ports: corpus ingestion,
// corpus-wide author reconciliation and enriched-record export.
//
// # Import Rules
//
//   - Can Import: domain, ports, lingua, tei, logger
//   - Cannot Import: Any adapter package
package services
