// Package roleservice implements decision-role management inside the
// identity-access context.
//
// The module owns the packed permission codec, role lifecycle with
// CRUD-preserving capability updates, role-to-profile bindings, and
// deny-by-default access checks. Packed integers stay inside the
// repositories; every other layer works with the decoded permission set.
package roleservice
