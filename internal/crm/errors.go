package crm

import "errors"

// Sentinel errors for domain service operations.
// These errors are part of the services' public API and should be checked
// using errors.Is().
//
// Example:
//
//	org, err := svc.Organization(ctx, userID, id, token)
//	if errors.Is(err, crm.ErrOrganizationNotFound) {
//	    // Handle missing organization
//	}
var (
	// ErrOrganizationNotFound indicates the organization does not exist or
	// is not visible to the requesting user.
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrPersonNotFound indicates the person does not exist or is not
	// visible to the requesting user.
	ErrPersonNotFound = errors.New("person not found")

	// ErrDealNotFound indicates the deal does not exist or is not visible
	// to the requesting user.
	ErrDealNotFound = errors.New("deal not found")
)
