// Package main provides the entry point of folio, the content backend of a photography
// portfolio. It serves the public site api and the session protected admin api through
// Fiber, persists content with gorm on sqlite, mysql or postgres and keeps uploaded
// images on disk.
package main
