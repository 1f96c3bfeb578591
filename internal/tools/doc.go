// Package tools implements the assistant's tool layer: the registry that
// dispatches named tools to executor instances, the CRM mutation tools
// (create/update organization, person, deal), and the think tool that
// captures structured reasoning.
//
// # Architecture
//
// Every tool is described by a Definition (name, description, JSON input
// schema) and built by a Factory. The Registry owns the name → (definition,
// factory) mapping and constructs a fresh executor per call, so no state is
// shared between invocations.
//
// Control flow:
//
//	caller → Registry.Execute(name, input, call)
//	       → factory() → Executor.Execute(ctx, input, ExecutionContext)
//	       → domain service (crm.OrganizationService, …)
//	       → Result
//
// # Design Principles
//
//   - Dependency Injection: services and loggers passed at registration time
//   - No Package-Level State: the Registry is an explicit object owned by
//     the composition root
//   - Structured outcomes: business-rule failures (duplicates, conflicts,
//     not-found, no-op updates) are returned as Result values with an error
//     code, never as Go errors; only infrastructure failures and unknown
//     tool names surface as errors
//
// # Tool Catalog
//
//  1. Organization tools: create_organization, update_organization
//  2. Person tools: create_person, update_person
//  3. Deal tools: create_deal, update_deal
//  4. Reasoning: think
//
// Tools are registered via RegisterAll() during application startup; the
// registry is read-only afterwards.
package tools
