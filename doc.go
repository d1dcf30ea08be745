// Package commitbot provides top-level metadata for the Commitbot API.
//
// @title Commitbot API
// @version 1.0.0
// @description Ingests GitHub push webhooks into per-user, per-repository commit aggregates.
// @BasePath /
package commitbot
