// Package models defines persistent entities and the repository interface used to store them.
//
//   - [Upload] : one published mix, linked back to the recording it came from
//
// Entities implement [Model]; [Repository] defines the data access operations the repositories package implements.
package models
