package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/pipedesk/assist/internal/crm"
	"github.com/pipedesk/assist/internal/log"
)

// Tool name constants for organization operations.
const (
	ToolCreateOrganization = "create_organization"
	ToolUpdateOrganization = "update_organization"
)

// CreateOrganizationInput defines input for the create_organization tool.
type CreateOrganizationInput struct {
	Name    string `json:"name" jsonschema:"Name of the organization to create (required)"`
	Address string `json:"address,omitempty" jsonschema:"Street address of the organization"`
}

// UpdateOrganizationInput defines input for the update_organization tool.
// Only the fields present in the input are considered for the update.
type UpdateOrganizationInput struct {
	OrganizationID string  `json:"organization_id" jsonschema:"ID of the organization to update (required)"`
	Name           *string `json:"name,omitempty" jsonschema:"New organization name"`
	Address        *string `json:"address,omitempty" jsonschema:"New street address"`
}

// RegisterOrganizationTools registers create_organization and
// update_organization with the registry.
func RegisterOrganizationTools(reg *Registry, svc crm.OrganizationService, logger log.Logger) {
	reg.Register(Definition{
		Name: ToolCreateOrganization,
		Description: "Create a new organization in the CRM. Checks for duplicate names " +
			"before creating and warns about similarly named organizations.",
		InputSchema: schemaFor[CreateOrganizationInput](),
	}, func() Executor {
		return &createOrganizationTool{svc: svc, logger: logger}
	})

	reg.Register(Definition{
		Name: ToolUpdateOrganization,
		Description: "Update an existing organization. Only fields that actually differ " +
			"from the stored record are written; renames are checked for conflicts " +
			"with other organizations.",
		InputSchema: schemaFor[UpdateOrganizationInput](),
	}, func() Executor {
		return &updateOrganizationTool{svc: svc, logger: logger}
	})
}

type createOrganizationTool struct {
	svc    crm.OrganizationService
	logger log.Logger
}

func (t *createOrganizationTool) Execute(ctx context.Context, input map[string]any, ec ExecutionContext) (Result, error) {
	trace := NewTrace()
	trace.Complete("initialize", "Starting organization creation workflow", nil)

	if !ec.Authenticated() {
		trace.Fail("error", "Authentication context missing")
		return failure(ErrCodeAuthRequired,
			"🔒 Authentication is required to create an organization.", trace), nil
	}

	in, err := decodeInput[CreateOrganizationInput](input)
	if err != nil || in.Name == "" {
		trace.Fail("validation", "Organization name is required")
		return failure(ErrCodeValidation,
			"❌ An organization name is required to create an organization.", trace), nil
	}
	trace.Complete("validation", "Input validated", map[string]any{"name": in.Name})

	existing, err := t.svc.Organizations(ctx, ec.UserID, ec.AuthToken)
	if err != nil {
		trace.Fail("duplicate_check", "Could not load existing organizations")
		return serviceFailure(ErrCodeCreationFailed,
			fmt.Sprintf("❌ Could not create organization %q.", in.Name), err, trace), nil
	}

	var warnings []string
	for _, org := range existing {
		if exactMatch(org.Name, in.Name) {
			trace.Fail("duplicate_check", fmt.Sprintf("Exact name match with organization %s", org.ID))
			return failureWith(ErrCodeDuplicateOrganization,
				fmt.Sprintf("❌ An organization named %q already exists.", org.Name),
				map[string]any{"existing_organization": org},
				fmt.Sprintf("Use organization_id %q instead of creating a duplicate.", org.ID),
				trace), nil
		}
		if closeMatch(org.Name, in.Name) {
			warnings = append(warnings,
				fmt.Sprintf("A similarly named organization already exists: %q (id %s).", org.Name, org.ID))
		}
	}
	trace.Complete("duplicate_check",
		fmt.Sprintf("Checked %d organizations, %d close matches", len(existing), len(warnings)), nil)

	created, err := t.svc.CreateOrganization(ctx, ec.UserID, crm.OrganizationInput{
		Name:    in.Name,
		Address: in.Address,
	}, ec.AuthToken)
	if err != nil {
		trace.Fail("organization_creation", "Service rejected the create")
		return serviceFailure(ErrCodeCreationFailed,
			fmt.Sprintf("❌ Could not create organization %q.", in.Name), err, trace), nil
	}
	if created.ID == "" {
		// Guard against a service that silently no-ops.
		trace.Fail("organization_creation", "Service returned no record id")
		return failure(ErrCodeCreationFailed,
			fmt.Sprintf("❌ Could not create organization %q.", in.Name), trace), nil
	}
	trace.Complete("organization_creation",
		fmt.Sprintf("Created organization %s", created.ID), map[string]any{"id": created.ID})

	t.logger.Info("organization created", "id", created.ID, "request_id", ec.RequestID)

	result := success(
		fmt.Sprintf("✅ Created organization %q (id %s).", created.Name, created.ID),
		map[string]any{"organization": created},
		trace)
	result.Warnings = warnings
	return result, nil
}

type updateOrganizationTool struct {
	svc    crm.OrganizationService
	logger log.Logger
}

func (t *updateOrganizationTool) Execute(ctx context.Context, input map[string]any, ec ExecutionContext) (Result, error) {
	trace := NewTrace()
	trace.Complete("initialize", "Starting organization update workflow", nil)

	if !ec.Authenticated() {
		trace.Fail("error", "Authentication context missing")
		return failure(ErrCodeAuthRequired,
			"🔒 Authentication is required to update an organization.", trace), nil
	}

	in, err := decodeInput[UpdateOrganizationInput](input)
	if err != nil || in.OrganizationID == "" {
		trace.Fail("validation", "organization_id is required")
		return failure(ErrCodeValidation,
			"❌ An organization_id is required to update an organization.", trace), nil
	}
	if in.Name != nil && *in.Name == "" {
		trace.Fail("validation", "Organization name cannot be cleared")
		return failure(ErrCodeValidation,
			"❌ An organization name cannot be empty.", trace), nil
	}
	trace.Complete("validation", "Input validated", map[string]any{"organization_id": in.OrganizationID})

	current, err := t.svc.Organization(ctx, ec.UserID, in.OrganizationID, ec.AuthToken)
	if err != nil {
		if errors.Is(err, crm.ErrOrganizationNotFound) {
			trace.Fail("error", "Organization not found")
			return failure(ErrCodeOrganizationNotFound,
				fmt.Sprintf("❌ No organization with id %q was found.", in.OrganizationID), trace), nil
		}
		trace.Fail("error", "Could not load organization")
		return serviceFailure(ErrCodeUpdateFailed,
			"❌ Could not update the organization.", err, trace), nil
	}

	// Name changes collide only with records other than the one being updated.
	if in.Name != nil && !exactMatch(*in.Name, current.Name) {
		all, err := t.svc.Organizations(ctx, ec.UserID, ec.AuthToken)
		if err != nil {
			trace.Fail("conflict_check", "Could not load existing organizations")
			return serviceFailure(ErrCodeUpdateFailed,
				"❌ Could not update the organization.", err, trace), nil
		}
		for _, org := range all {
			if org.ID != current.ID && exactMatch(org.Name, *in.Name) {
				trace.Fail("conflict_check", fmt.Sprintf("Name collides with organization %s", org.ID))
				return failureWith(ErrCodeNameConflict,
					fmt.Sprintf("❌ Another organization is already named %q.", org.Name),
					map[string]any{"conflicting_organization": org},
					fmt.Sprintf("Choose a different name or update organization %q instead.", org.ID),
					trace), nil
			}
		}
		trace.Complete("conflict_check", "No name conflicts", nil)
	}

	var (
		patch   crm.OrganizationPatch
		changes []string
	)
	if in.Name != nil && *in.Name != current.Name {
		patch.Name = in.Name
		changes = append(changes, fmt.Sprintf("name: %s → %s", current.Name, *in.Name))
	}
	if in.Address != nil && *in.Address != current.Address {
		patch.Address = in.Address
		changes = append(changes, fmt.Sprintf("address: %s → %s", current.Address, *in.Address))
	}
	trace.Complete("change_analysis",
		fmt.Sprintf("Detected %d changed fields", len(changes)), changes)

	if len(changes) == 0 {
		// Nothing differs; no write is issued.
		return success(
			fmt.Sprintf("✅ Organization %q is already up to date, no changes needed.", current.Name),
			map[string]any{"organization": current, "changes_detected": 0},
			trace), nil
	}

	updated, err := t.svc.UpdateOrganization(ctx, ec.UserID, current.ID, patch, ec.AuthToken)
	if err != nil {
		trace.Fail("organization_update", "Service rejected the update")
		return serviceFailure(ErrCodeUpdateFailed,
			fmt.Sprintf("❌ Could not update organization %q.", current.Name), err, trace), nil
	}
	if updated.ID != current.ID {
		trace.Fail("organization_update", "Service returned a different record")
		return failure(ErrCodeUpdateFailed,
			fmt.Sprintf("❌ Could not update organization %q.", current.Name), trace), nil
	}
	trace.Complete("organization_update",
		fmt.Sprintf("Updated organization %s", updated.ID), map[string]any{"id": updated.ID})

	t.logger.Info("organization updated",
		"id", updated.ID, "changes", len(changes), "request_id", ec.RequestID)

	return success(
		fmt.Sprintf("✅ Updated organization %q (%d field(s) changed).", updated.Name, len(changes)),
		map[string]any{
			"organization":     updated,
			"changes":          changes,
			"changes_detected": len(changes),
		},
		trace), nil
}

// serviceFailure wraps an unexpected service-layer error into a structured
// failure carrying the original error text in details. Business failures
// never reach this path; it exists so a tool cannot crash its caller.
func serviceFailure(code ErrorCode, message string, err error, trace *Trace) Result {
	return failureWith(code, message, map[string]any{"error": err.Error()}, "", trace)
}
