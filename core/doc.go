// Package core defines the shared data model of the refinement engine:
// agent definitions, sessions, per-agent refinement records, progress
// events and the sentinel errors used across packages. Types here are
// plain data; orchestration behavior lives in the orchestrator package
// and catalog behavior in the registry package.
package core
