// Package dynamodb implements source.Source on top of a DynamoDB table.
//
// FetchAll issues a paginated Scan restricted to the projected attributes.
// With WithSegments(n) the table is scanned as n parallel segments. Items are
// mapped to model.Record: animal_id, breed and name become the typed fields and
// every other projected attribute is JSON-encoded into the payload.
package dynamodb
