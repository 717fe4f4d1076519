// Package seed loads YAML seed manifests and applies them to a store.
//
// A manifest declares users with optional nested financial records.
// LoadManifest reads and parses a file, ValidateManifest reports every
// problem with its position in the document, and Seeder.Apply inserts
// the declared data, hashing passwords on the way in.
//
// Apply is idempotent at the user level: a user whose email is already
// registered is skipped together with their records, so re-running
// tally-init with the same manifest never duplicates data.
package seed
