package tools

import (
	"context"
	"errors"

	"github.com/pipedesk/assist/internal/crm"
)

// In-memory service fakes for the tool tests. Each fake records write
// traffic so tests can assert on what the tool actually sent (or that it
// sent nothing at all).

type fakeOrgService struct {
	orgs []crm.Organization

	listErr   error
	createErr error
	updateErr error

	creates []crm.OrganizationInput
	updates []crm.OrganizationPatch
}

func (f *fakeOrgService) Organizations(_ context.Context, _, _ string) ([]crm.Organization, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.orgs, nil
}

func (f *fakeOrgService) Organization(_ context.Context, _, id, _ string) (crm.Organization, error) {
	for _, org := range f.orgs {
		if org.ID == id {
			return org, nil
		}
	}
	return crm.Organization{}, crm.ErrOrganizationNotFound
}

func (f *fakeOrgService) CreateOrganization(_ context.Context, userID string, input crm.OrganizationInput, _ string) (crm.Organization, error) {
	if f.createErr != nil {
		return crm.Organization{}, f.createErr
	}
	f.creates = append(f.creates, input)
	return crm.Organization{
		ID:      "org-new",
		Name:    input.Name,
		Address: input.Address,
		UserID:  userID,
	}, nil
}

func (f *fakeOrgService) UpdateOrganization(_ context.Context, _, id string, patch crm.OrganizationPatch, _ string) (crm.Organization, error) {
	if f.updateErr != nil {
		return crm.Organization{}, f.updateErr
	}
	f.updates = append(f.updates, patch)
	for _, org := range f.orgs {
		if org.ID != id {
			continue
		}
		if patch.Name != nil {
			org.Name = *patch.Name
		}
		if patch.Address != nil {
			org.Address = *patch.Address
		}
		return org, nil
	}
	return crm.Organization{}, crm.ErrOrganizationNotFound
}

type fakePersonService struct {
	people []crm.Person

	listErr   error
	createErr error

	creates []crm.PersonInput
	updates []crm.PersonPatch
}

func (f *fakePersonService) People(_ context.Context, _, _ string) ([]crm.Person, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.people, nil
}

func (f *fakePersonService) Person(_ context.Context, _, id, _ string) (crm.Person, error) {
	for _, p := range f.people {
		if p.ID == id {
			return p, nil
		}
	}
	return crm.Person{}, crm.ErrPersonNotFound
}

func (f *fakePersonService) CreatePerson(_ context.Context, userID string, input crm.PersonInput, _ string) (crm.Person, error) {
	if f.createErr != nil {
		return crm.Person{}, f.createErr
	}
	f.creates = append(f.creates, input)
	return crm.Person{
		ID:             "person-new",
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Phone:          input.Phone,
		Notes:          input.Notes,
		OrganizationID: input.OrganizationID,
		UserID:         userID,
	}, nil
}

func (f *fakePersonService) UpdatePerson(_ context.Context, _, id string, patch crm.PersonPatch, _ string) (crm.Person, error) {
	f.updates = append(f.updates, patch)
	for _, p := range f.people {
		if p.ID != id {
			continue
		}
		if patch.FirstName != nil {
			p.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			p.LastName = *patch.LastName
		}
		if patch.Email != nil {
			p.Email = *patch.Email
		}
		if patch.Phone != nil {
			p.Phone = *patch.Phone
		}
		if patch.Notes != nil {
			p.Notes = *patch.Notes
		}
		if patch.OrganizationID != nil {
			p.OrganizationID = *patch.OrganizationID
		}
		return p, nil
	}
	return crm.Person{}, crm.ErrPersonNotFound
}

type fakeDealService struct {
	deals []crm.Deal

	createErr error

	creates []crm.DealInput
	updates []crm.DealPatch
}

func (f *fakeDealService) Deals(_ context.Context, _, _ string) ([]crm.Deal, error) {
	return f.deals, nil
}

func (f *fakeDealService) Deal(_ context.Context, _, id, _ string) (crm.Deal, error) {
	for _, d := range f.deals {
		if d.ID == id {
			return d, nil
		}
	}
	return crm.Deal{}, crm.ErrDealNotFound
}

func (f *fakeDealService) CreateDeal(_ context.Context, userID string, input crm.DealInput, _ string) (crm.Deal, error) {
	if f.createErr != nil {
		return crm.Deal{}, f.createErr
	}
	f.creates = append(f.creates, input)
	return crm.Deal{
		ID:                "deal-new",
		Name:              input.Name,
		Amount:            input.Amount,
		Stage:             input.Stage,
		OrganizationID:    input.OrganizationID,
		PersonID:          input.PersonID,
		ExpectedCloseDate: input.ExpectedCloseDate,
		UserID:            userID,
	}, nil
}

func (f *fakeDealService) UpdateDeal(_ context.Context, _, id string, patch crm.DealPatch, _ string) (crm.Deal, error) {
	f.updates = append(f.updates, patch)
	for _, d := range f.deals {
		if d.ID != id {
			continue
		}
		if patch.Name != nil {
			d.Name = *patch.Name
		}
		if patch.Amount != nil {
			d.Amount = *patch.Amount
		}
		if patch.Stage != nil {
			d.Stage = *patch.Stage
		}
		if patch.OrganizationID != nil {
			d.OrganizationID = *patch.OrganizationID
		}
		if patch.PersonID != nil {
			d.PersonID = *patch.PersonID
		}
		if patch.ExpectedCloseDate != nil {
			d.ExpectedCloseDate = *patch.ExpectedCloseDate
		}
		return d, nil
	}
	return crm.Deal{}, crm.ErrDealNotFound
}

type fakeReasoningStore struct {
	saveErr error
	records []ReasoningRecord
}

func (f *fakeReasoningStore) Save(_ context.Context, rec ReasoningRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records = append(f.records, rec)
	return nil
}

var errBackend = errors.New("backend unavailable")

// authedCall returns a Call carrying full credentials, the common case in
// the tests below.
func authedCall() Call {
	return Call{
		ConversationID: "conv-1",
		AuthToken:      "token-1",
		UserID:         "user-1",
	}
}

func strPtr(s string) *string { return &s }

func float64Ptr(f float64) *float64 { return &f }
