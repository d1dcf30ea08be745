package swagger

// @Tag.name Commitbot Meta
// @Tag.description Operational probes and metadata about the service.

// @Tag.name Commitbot Webhooks
// @Tag.description GitHub webhook intake.

// @Tag.name Commitbot Commits
// @Tag.description Stored commit aggregates.
