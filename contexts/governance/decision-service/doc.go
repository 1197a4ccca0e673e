// Package decisionservice implements the decision process and voting engine
// inside the governance context.
//
// The module owns decision process definitions and their phased instances,
// proposal intake against compiled templates, schema-dialect resolution for
// instance configuration, and exactly-once ballot recording with outbox-backed
// event production. It keeps business rules in application/domain layers and
// isolates infrastructure concerns behind ports and adapters.
package decisionservice
