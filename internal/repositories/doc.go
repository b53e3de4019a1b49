// Package repositories implements SQLite persistence for upload history.
//
// [UploadRepository] stores one row per published mix so reruns can tell whether a recording
// has already been uploaded. Tags are stored comma-joined.
//
// The schema is created by the migrations embedded in the shared package; see [shared.OpenDatabase].
package repositories
