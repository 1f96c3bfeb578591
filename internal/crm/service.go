package crm

import "context"

// The service interfaces below are the narrow seam between the assistant's
// tools and whatever backs the CRM data. The auth token is passed through
// verbatim; the services decide what to do with it. All methods return the
// full created/updated record on success and a sentinel error (see errors.go)
// on hard failure.

// OrganizationService provides CRUD access to organizations for one user.
type OrganizationService interface {
	Organizations(ctx context.Context, userID, authToken string) ([]Organization, error)
	Organization(ctx context.Context, userID, id, authToken string) (Organization, error)
	CreateOrganization(ctx context.Context, userID string, input OrganizationInput, authToken string) (Organization, error)
	UpdateOrganization(ctx context.Context, userID, id string, patch OrganizationPatch, authToken string) (Organization, error)
}

// PersonService provides CRUD access to people for one user.
type PersonService interface {
	People(ctx context.Context, userID, authToken string) ([]Person, error)
	Person(ctx context.Context, userID, id, authToken string) (Person, error)
	CreatePerson(ctx context.Context, userID string, input PersonInput, authToken string) (Person, error)
	UpdatePerson(ctx context.Context, userID, id string, patch PersonPatch, authToken string) (Person, error)
}

// DealService provides CRUD access to deals for one user.
type DealService interface {
	Deals(ctx context.Context, userID, authToken string) ([]Deal, error)
	Deal(ctx context.Context, userID, id, authToken string) (Deal, error)
	CreateDeal(ctx context.Context, userID string, input DealInput, authToken string) (Deal, error)
	UpdateDeal(ctx context.Context, userID, id string, patch DealPatch, authToken string) (Deal, error)
}

// Services bundles the three entity services for wiring convenience.
type Services struct {
	Organizations OrganizationService
	People        PersonService
	Deals         DealService
}
