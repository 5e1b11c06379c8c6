// Package sqlstore implements the backend-neutral read path of the admin
// event store: the joined queries, composite-key grouping, and builder
// assembly that turn flat rows into AdminEvent objects.
//
// Callers (the sqlite and postgres stores) pass in a transaction handle so
// every query in one reconstruction observes a single consistent snapshot.
package sqlstore
