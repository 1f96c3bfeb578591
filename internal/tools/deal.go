package tools

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/pipedesk/assist/internal/crm"
	"github.com/pipedesk/assist/internal/log"
)

// Tool name constants for deal operations.
const (
	ToolCreateDeal = "create_deal"
	ToolUpdateDeal = "update_deal"
)

// CreateDealInput defines input for the create_deal tool.
type CreateDealInput struct {
	Name              string  `json:"name,omitempty" jsonschema:"Name of the deal; synthesized from the organization when omitted"`
	Amount            float64 `json:"amount" jsonschema:"Deal value in dollars (required, must be positive)"`
	OrganizationID    string  `json:"organization_id,omitempty" jsonschema:"ID of the organization the deal belongs to"`
	PersonID          string  `json:"person_id,omitempty" jsonschema:"ID of the primary contact for the deal"`
	Stage             string  `json:"stage,omitempty" jsonschema:"Pipeline stage (e.g. prospecting, negotiation)"`
	ExpectedCloseDate string  `json:"expected_close_date,omitempty" jsonschema:"Expected close date (YYYY-MM-DD)"`
}

// UpdateDealInput defines input for the update_deal tool. Only the fields
// present in the input are considered for the update.
type UpdateDealInput struct {
	DealID            string   `json:"deal_id" jsonschema:"ID of the deal to update (required)"`
	Name              *string  `json:"name,omitempty" jsonschema:"New deal name"`
	Amount            *float64 `json:"amount,omitempty" jsonschema:"New deal value in dollars"`
	Stage             *string  `json:"stage,omitempty" jsonschema:"New pipeline stage"`
	OrganizationID    *string  `json:"organization_id,omitempty" jsonschema:"New organization ID"`
	PersonID          *string  `json:"person_id,omitempty" jsonschema:"New primary contact ID"`
	ExpectedCloseDate *string  `json:"expected_close_date,omitempty" jsonschema:"New expected close date (YYYY-MM-DD)"`
}

// RegisterDealTools registers create_deal and update_deal with the registry.
// The organization service resolves organization references on create.
func RegisterDealTools(reg *Registry, deals crm.DealService, orgs crm.OrganizationService, logger log.Logger) {
	reg.Register(Definition{
		Name: ToolCreateDeal,
		Description: "Create a new deal in the CRM pipeline. Resolves the linked " +
			"organization and synthesizes a deal name when none is given.",
		InputSchema: schemaFor[CreateDealInput](),
	}, func() Executor {
		return &createDealTool{deals: deals, orgs: orgs, logger: logger}
	})

	reg.Register(Definition{
		Name: ToolUpdateDeal,
		Description: "Update an existing deal. Only fields that actually differ from " +
			"the stored record are written.",
		InputSchema: schemaFor[UpdateDealInput](),
	}, func() Executor {
		return &updateDealTool{deals: deals, logger: logger}
	})
}

type createDealTool struct {
	deals  crm.DealService
	orgs   crm.OrganizationService
	logger log.Logger
}

func (t *createDealTool) Execute(ctx context.Context, input map[string]any, ec ExecutionContext) (Result, error) {
	trace := NewTrace()
	trace.Complete("initialize", "Starting deal creation workflow", nil)

	if !ec.Authenticated() {
		trace.Fail("error", "Authentication context missing")
		return failure(ErrCodeAuthRequired,
			"🔒 Authentication is required to create a deal.", trace), nil
	}

	in, err := decodeInput[CreateDealInput](input)
	if err != nil || in.Amount <= 0 {
		trace.Fail("validation", "A positive amount is required")
		return failure(ErrCodeValidation,
			"❌ A deal needs a positive amount.", trace), nil
	}
	trace.Complete("validation", "Input validated", map[string]any{"amount": in.Amount})

	// Resolve the organization so a bad reference fails before the write
	// and the synthesized name can use the organization's display name.
	var orgName string
	if in.OrganizationID != "" {
		org, err := t.orgs.Organization(ctx, ec.UserID, in.OrganizationID, ec.AuthToken)
		if err != nil {
			if errors.Is(err, crm.ErrOrganizationNotFound) {
				trace.Fail("error", "Organization not found")
				return failure(ErrCodeOrganizationNotFound,
					fmt.Sprintf("❌ No organization with id %q was found for this deal.", in.OrganizationID), trace), nil
			}
			trace.Fail("error", "Could not resolve organization")
			return serviceFailure(ErrCodeCreationFailed,
				"❌ Could not create the deal.", err, trace), nil
		}
		orgName = org.Name
		trace.Complete("organization_lookup",
			fmt.Sprintf("Resolved organization %q", org.Name), map[string]any{"id": org.ID})
	}

	name := in.Name
	if name == "" {
		if orgName != "" {
			name = orgName + " Opportunity"
		} else {
			name = "$" + strconv.FormatFloat(in.Amount, 'f', -1, 64) + " Deal"
		}
	}

	created, err := t.deals.CreateDeal(ctx, ec.UserID, crm.DealInput{
		Name:              name,
		Amount:            in.Amount,
		Stage:             in.Stage,
		OrganizationID:    in.OrganizationID,
		PersonID:          in.PersonID,
		ExpectedCloseDate: in.ExpectedCloseDate,
	}, ec.AuthToken)
	if err != nil {
		trace.Fail("deal_creation", "Service rejected the create")
		return serviceFailure(ErrCodeCreationFailed,
			fmt.Sprintf("❌ Could not create deal %q.", name), err, trace), nil
	}
	if created.ID == "" {
		trace.Fail("deal_creation", "Service returned no record id")
		return failure(ErrCodeCreationFailed,
			fmt.Sprintf("❌ Could not create deal %q.", name), trace), nil
	}
	trace.Complete("deal_creation",
		fmt.Sprintf("Created deal %s", created.ID), map[string]any{"id": created.ID})

	t.logger.Info("deal created",
		"id", created.ID, "amount", created.Amount, "request_id", ec.RequestID)

	return success(
		fmt.Sprintf("✅ Created deal %q for $%.2f (id %s).", created.Name, created.Amount, created.ID),
		map[string]any{"deal": created},
		trace), nil
}

type updateDealTool struct {
	deals  crm.DealService
	logger log.Logger
}

func (t *updateDealTool) Execute(ctx context.Context, input map[string]any, ec ExecutionContext) (Result, error) {
	trace := NewTrace()
	trace.Complete("initialize", "Starting deal update workflow", nil)

	if !ec.Authenticated() {
		trace.Fail("error", "Authentication context missing")
		return failure(ErrCodeAuthRequired,
			"🔒 Authentication is required to update a deal.", trace), nil
	}

	in, err := decodeInput[UpdateDealInput](input)
	if err != nil || in.DealID == "" {
		trace.Fail("validation", "deal_id is required")
		return failure(ErrCodeValidation,
			"❌ A deal_id is required to update a deal.", trace), nil
	}
	if in.Amount != nil && *in.Amount <= 0 {
		trace.Fail("validation", "Amount must be positive")
		return failure(ErrCodeValidation,
			"❌ A deal amount must be positive.", trace), nil
	}
	trace.Complete("validation", "Input validated", map[string]any{"deal_id": in.DealID})

	current, err := t.deals.Deal(ctx, ec.UserID, in.DealID, ec.AuthToken)
	if err != nil {
		if errors.Is(err, crm.ErrDealNotFound) {
			trace.Fail("error", "Deal not found")
			return failure(ErrCodeDealNotFound,
				fmt.Sprintf("❌ No deal with id %q was found.", in.DealID), trace), nil
		}
		trace.Fail("error", "Could not load deal")
		return serviceFailure(ErrCodeUpdateFailed,
			"❌ Could not update the deal.", err, trace), nil
	}

	var (
		patch   crm.DealPatch
		changes []string
	)
	diffStr := func(field string, newVal *string, oldVal string, apply func(*string)) {
		if newVal != nil && *newVal != oldVal {
			apply(newVal)
			changes = append(changes, fmt.Sprintf("%s: %s → %s", field, oldVal, *newVal))
		}
	}
	diffStr("name", in.Name, current.Name, func(v *string) { patch.Name = v })
	if in.Amount != nil && *in.Amount != current.Amount {
		patch.Amount = in.Amount
		changes = append(changes, fmt.Sprintf("amount: %.2f → %.2f", current.Amount, *in.Amount))
	}
	diffStr("stage", in.Stage, current.Stage, func(v *string) { patch.Stage = v })
	diffStr("organization_id", in.OrganizationID, current.OrganizationID, func(v *string) { patch.OrganizationID = v })
	diffStr("person_id", in.PersonID, current.PersonID, func(v *string) { patch.PersonID = v })
	diffStr("expected_close_date", in.ExpectedCloseDate, current.ExpectedCloseDate, func(v *string) { patch.ExpectedCloseDate = v })
	trace.Complete("change_analysis",
		fmt.Sprintf("Detected %d changed fields", len(changes)), changes)

	if len(changes) == 0 {
		return success(
			fmt.Sprintf("✅ Deal %q is already up to date, no changes needed.", current.Name),
			map[string]any{"deal": current, "changes_detected": 0},
			trace), nil
	}

	updated, err := t.deals.UpdateDeal(ctx, ec.UserID, current.ID, patch, ec.AuthToken)
	if err != nil {
		trace.Fail("deal_update", "Service rejected the update")
		return serviceFailure(ErrCodeUpdateFailed,
			fmt.Sprintf("❌ Could not update deal %q.", current.Name), err, trace), nil
	}
	if updated.ID != current.ID {
		trace.Fail("deal_update", "Service returned a different record")
		return failure(ErrCodeUpdateFailed,
			fmt.Sprintf("❌ Could not update deal %q.", current.Name), trace), nil
	}
	trace.Complete("deal_update",
		fmt.Sprintf("Updated deal %s", updated.ID), map[string]any{"id": updated.ID})

	t.logger.Info("deal updated",
		"id", updated.ID, "changes", len(changes), "request_id", ec.RequestID)

	return success(
		fmt.Sprintf("✅ Updated deal %q (%d field(s) changed).", updated.Name, len(changes)),
		map[string]any{
			"deal":             updated,
			"changes":          changes,
			"changes_detected": len(changes),
		},
		trace), nil
}
