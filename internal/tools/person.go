package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/pipedesk/assist/internal/crm"
	"github.com/pipedesk/assist/internal/log"
)

// Tool name constants for person operations.
const (
	ToolCreatePerson = "create_person"
	ToolUpdatePerson = "update_person"
)

// CreatePersonInput defines input for the create_person tool. At least one
// of first name, last name, or email is required.
type CreatePersonInput struct {
	FirstName      string `json:"first_name,omitempty" jsonschema:"First name of the contact"`
	LastName       string `json:"last_name,omitempty" jsonschema:"Last name of the contact"`
	Email          string `json:"email,omitempty" jsonschema:"Email address of the contact"`
	Phone          string `json:"phone,omitempty" jsonschema:"Phone number (US numbers are normalized)"`
	Notes          string `json:"notes,omitempty" jsonschema:"Free-form notes about the contact"`
	OrganizationID string `json:"organization_id,omitempty" jsonschema:"ID of the organization this contact belongs to"`
}

// UpdatePersonInput defines input for the update_person tool. Only the
// fields present in the input are considered for the update.
type UpdatePersonInput struct {
	PersonID       string  `json:"person_id" jsonschema:"ID of the person to update (required)"`
	FirstName      *string `json:"first_name,omitempty" jsonschema:"New first name"`
	LastName       *string `json:"last_name,omitempty" jsonschema:"New last name"`
	Email          *string `json:"email,omitempty" jsonschema:"New email address"`
	Phone          *string `json:"phone,omitempty" jsonschema:"New phone number (US numbers are normalized)"`
	Notes          *string `json:"notes,omitempty" jsonschema:"New notes"`
	OrganizationID *string `json:"organization_id,omitempty" jsonschema:"New organization ID"`
}

// RegisterPersonTools registers create_person and update_person with the
// registry.
func RegisterPersonTools(reg *Registry, svc crm.PersonService, logger log.Logger) {
	reg.Register(Definition{
		Name: ToolCreatePerson,
		Description: "Create a new contact in the CRM. Checks for duplicates by name " +
			"and email before creating. US phone numbers are normalized.",
		InputSchema: schemaFor[CreatePersonInput](),
	}, func() Executor {
		return &createPersonTool{svc: svc, logger: logger}
	})

	reg.Register(Definition{
		Name: ToolUpdatePerson,
		Description: "Update an existing contact. Only fields that actually differ from " +
			"the stored record are written; email changes are checked for conflicts " +
			"with other contacts.",
		InputSchema: schemaFor[UpdatePersonInput](),
	}, func() Executor {
		return &updatePersonTool{svc: svc, logger: logger}
	})
}

type createPersonTool struct {
	svc    crm.PersonService
	logger log.Logger
}

func (t *createPersonTool) Execute(ctx context.Context, input map[string]any, ec ExecutionContext) (Result, error) {
	trace := NewTrace()
	trace.Complete("initialize", "Starting person creation workflow", nil)

	if !ec.Authenticated() {
		trace.Fail("error", "Authentication context missing")
		return failure(ErrCodeAuthRequired,
			"🔒 Authentication is required to create a contact.", trace), nil
	}

	in, err := decodeInput[CreatePersonInput](input)
	if err != nil || (in.FirstName == "" && in.LastName == "" && in.Email == "") {
		trace.Fail("validation", "At least one of first name, last name, or email is required")
		return failure(ErrCodeValidation,
			"❌ A contact needs at least a first name, last name, or email address.", trace), nil
	}
	trace.Complete("validation", "Input validated", nil)

	existing, err := t.svc.People(ctx, ec.UserID, ec.AuthToken)
	if err != nil {
		trace.Fail("duplicate_check", "Could not load existing contacts")
		return serviceFailure(ErrCodeCreationFailed,
			"❌ Could not create the contact.", err, trace), nil
	}

	fullName := crm.Person{FirstName: in.FirstName, LastName: in.LastName}.FullName()

	var warnings []string
	for _, p := range existing {
		if in.Email != "" && exactMatch(p.Email, in.Email) {
			trace.Fail("duplicate_check", fmt.Sprintf("Email matches person %s", p.ID))
			return failureWith(ErrCodeDuplicatePerson,
				fmt.Sprintf("❌ A contact with the email %q already exists (%s).", p.Email, p.FullName()),
				map[string]any{"existing_person": p},
				fmt.Sprintf("Use person_id %q instead of creating a duplicate.", p.ID),
				trace), nil
		}
		if fullName != "" && exactMatch(p.FullName(), fullName) {
			trace.Fail("duplicate_check", fmt.Sprintf("Name matches person %s", p.ID))
			return failureWith(ErrCodeDuplicatePerson,
				fmt.Sprintf("❌ A contact named %q already exists.", p.FullName()),
				map[string]any{"existing_person": p},
				fmt.Sprintf("Use person_id %q instead of creating a duplicate.", p.ID),
				trace), nil
		}
		if fullName != "" && closeMatch(p.FullName(), fullName) {
			warnings = append(warnings,
				fmt.Sprintf("A similarly named contact already exists: %q (id %s).", p.FullName(), p.ID))
		}
	}
	trace.Complete("duplicate_check",
		fmt.Sprintf("Checked %d contacts, %d close matches", len(existing), len(warnings)), nil)

	created, err := t.svc.CreatePerson(ctx, ec.UserID, crm.PersonInput{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Phone:          crm.NormalizePhone(in.Phone),
		Notes:          in.Notes,
		OrganizationID: in.OrganizationID,
	}, ec.AuthToken)
	if err != nil {
		trace.Fail("person_creation", "Service rejected the create")
		return serviceFailure(ErrCodeCreationFailed,
			"❌ Could not create the contact.", err, trace), nil
	}
	if created.ID == "" {
		trace.Fail("person_creation", "Service returned no record id")
		return failure(ErrCodeCreationFailed,
			"❌ Could not create the contact.", trace), nil
	}
	trace.Complete("person_creation",
		fmt.Sprintf("Created person %s", created.ID), map[string]any{"id": created.ID})

	t.logger.Info("person created", "id", created.ID, "request_id", ec.RequestID)

	display := created.FullName()
	if display == "" {
		display = created.Email
	}
	result := success(
		fmt.Sprintf("✅ Created contact %q (id %s).", display, created.ID),
		map[string]any{"person": created},
		trace)
	result.Warnings = warnings
	return result, nil
}

type updatePersonTool struct {
	svc    crm.PersonService
	logger log.Logger
}

func (t *updatePersonTool) Execute(ctx context.Context, input map[string]any, ec ExecutionContext) (Result, error) {
	trace := NewTrace()
	trace.Complete("initialize", "Starting person update workflow", nil)

	if !ec.Authenticated() {
		trace.Fail("error", "Authentication context missing")
		return failure(ErrCodeAuthRequired,
			"🔒 Authentication is required to update a contact.", trace), nil
	}

	in, err := decodeInput[UpdatePersonInput](input)
	if err != nil || in.PersonID == "" {
		trace.Fail("validation", "person_id is required")
		return failure(ErrCodeValidation,
			"❌ A person_id is required to update a contact.", trace), nil
	}
	trace.Complete("validation", "Input validated", map[string]any{"person_id": in.PersonID})

	current, err := t.svc.Person(ctx, ec.UserID, in.PersonID, ec.AuthToken)
	if err != nil {
		if errors.Is(err, crm.ErrPersonNotFound) {
			trace.Fail("error", "Person not found")
			return failure(ErrCodePersonNotFound,
				fmt.Sprintf("❌ No contact with id %q was found.", in.PersonID), trace), nil
		}
		trace.Fail("error", "Could not load contact")
		return serviceFailure(ErrCodeUpdateFailed,
			"❌ Could not update the contact.", err, trace), nil
	}

	// Email is the uniqueness-bearing field: a change may only collide with
	// records other than the one being updated.
	if in.Email != nil && *in.Email != "" && !exactMatch(*in.Email, current.Email) {
		all, err := t.svc.People(ctx, ec.UserID, ec.AuthToken)
		if err != nil {
			trace.Fail("conflict_check", "Could not load existing contacts")
			return serviceFailure(ErrCodeUpdateFailed,
				"❌ Could not update the contact.", err, trace), nil
		}
		for _, p := range all {
			if p.ID != current.ID && exactMatch(p.Email, *in.Email) {
				trace.Fail("conflict_check", fmt.Sprintf("Email collides with person %s", p.ID))
				return failureWith(ErrCodeEmailConflict,
					fmt.Sprintf("❌ The email %q already belongs to %s.", p.Email, p.FullName()),
					map[string]any{"conflicting_person": p},
					fmt.Sprintf("Use a different email or update person %q instead.", p.ID),
					trace), nil
			}
		}
		trace.Complete("conflict_check", "No email conflicts", nil)
	}

	var (
		patch   crm.PersonPatch
		changes []string
	)
	diff := func(field string, newVal *string, oldVal string, apply func(*string)) {
		if newVal != nil && *newVal != oldVal {
			apply(newVal)
			changes = append(changes, fmt.Sprintf("%s: %s → %s", field, oldVal, *newVal))
		}
	}
	diff("first_name", in.FirstName, current.FirstName, func(v *string) { patch.FirstName = v })
	diff("last_name", in.LastName, current.LastName, func(v *string) { patch.LastName = v })
	diff("email", in.Email, current.Email, func(v *string) { patch.Email = v })
	if in.Phone != nil {
		// Normalize before diffing so a cosmetic difference that changes the
		// stored format still counts as a change.
		normalized := crm.NormalizePhone(*in.Phone)
		diff("phone", &normalized, current.Phone, func(v *string) { patch.Phone = v })
	}
	diff("notes", in.Notes, current.Notes, func(v *string) { patch.Notes = v })
	diff("organization_id", in.OrganizationID, current.OrganizationID, func(v *string) { patch.OrganizationID = v })
	trace.Complete("change_analysis",
		fmt.Sprintf("Detected %d changed fields", len(changes)), changes)

	if len(changes) == 0 {
		return success(
			fmt.Sprintf("✅ Contact %q is already up to date, no changes needed.", current.FullName()),
			map[string]any{"person": current, "changes_detected": 0},
			trace), nil
	}

	updated, err := t.svc.UpdatePerson(ctx, ec.UserID, current.ID, patch, ec.AuthToken)
	if err != nil {
		trace.Fail("person_update", "Service rejected the update")
		return serviceFailure(ErrCodeUpdateFailed,
			"❌ Could not update the contact.", err, trace), nil
	}
	if updated.ID != current.ID {
		trace.Fail("person_update", "Service returned a different record")
		return failure(ErrCodeUpdateFailed,
			"❌ Could not update the contact.", trace), nil
	}
	trace.Complete("person_update",
		fmt.Sprintf("Updated person %s", updated.ID), map[string]any{"id": updated.ID})

	t.logger.Info("person updated",
		"id", updated.ID, "changes", len(changes), "request_id", ec.RequestID)

	return success(
		fmt.Sprintf("✅ Updated contact %q (%d field(s) changed).", updated.FullName(), len(changes)),
		map[string]any{
			"person":           updated,
			"changes":          changes,
			"changes_detected": len(changes),
		},
		trace), nil
}
