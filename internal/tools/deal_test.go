package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipedesk/assist/internal/crm"
	"github.com/pipedesk/assist/internal/log"
)

func newDealRegistry(t *testing.T, deals *fakeDealService, orgs *fakeOrgService) *Registry {
	t.Helper()
	reg := NewRegistry(log.NewNop())
	RegisterDealTools(reg, deals, orgs, log.NewNop())
	return reg
}

func TestCreateDealRequiresPositiveAmount(t *testing.T) {
	deals := &fakeDealService{}
	reg := newDealRegistry(t, deals, &fakeOrgService{})

	for _, amount := range []float64{0, -500} {
		result, err := reg.Execute(context.Background(), ToolCreateDeal,
			map[string]any{"amount": amount}, authedCall())

		require.NoError(t, err)
		require.NotNil(t, result.Error)
		assert.Equal(t, ErrCodeValidation, result.Error.Code)
	}
	assert.Empty(t, deals.creates)
}

func TestCreateDealUnknownOrganization(t *testing.T) {
	deals := &fakeDealService{}
	reg := newDealRegistry(t, deals, &fakeOrgService{})

	result, err := reg.Execute(context.Background(), ToolCreateDeal,
		map[string]any{"amount": 5000.0, "organization_id": "org-missing"}, authedCall())

	require.NoError(t, err)
	require.NotNil(t, result.Error)
	assert.Equal(t, ErrCodeOrganizationNotFound, result.Error.Code)
	assert.Empty(t, deals.creates, "bad organization reference must block the write")
}

func TestCreateDealSynthesizesNameFromOrganization(t *testing.T) {
	deals := &fakeDealService{}
	orgs := &fakeOrgService{orgs: []crm.Organization{
		{ID: "org-1", Name: "Acme Corp"},
	}}
	reg := newDealRegistry(t, deals, orgs)

	result, err := reg.Execute(context.Background(), ToolCreateDeal,
		map[string]any{"amount": 5000.0, "organization_id": "org-1"}, authedCall())

	require.NoError(t, err)
	assert.True(t, result.OK())
	require.Len(t, deals.creates, 1)
	assert.Equal(t, "Acme Corp Opportunity", deals.creates[0].Name)
}

func TestCreateDealSynthesizesNameFromAmount(t *testing.T) {
	deals := &fakeDealService{}
	reg := newDealRegistry(t, deals, &fakeOrgService{})

	result, err := reg.Execute(context.Background(), ToolCreateDeal,
		map[string]any{"amount": 7500.0}, authedCall())

	require.NoError(t, err)
	assert.True(t, result.OK())
	require.Len(t, deals.creates, 1)
	assert.Equal(t, "$7500 Deal", deals.creates[0].Name)
}

func TestCreateDealKeepsExplicitName(t *testing.T) {
	deals := &fakeDealService{}
	orgs := &fakeOrgService{orgs: []crm.Organization{{ID: "org-1", Name: "Acme Corp"}}}
	reg := newDealRegistry(t, deals, orgs)

	result, err := reg.Execute(context.Background(), ToolCreateDeal,
		map[string]any{
			"amount":          5000.0,
			"organization_id": "org-1",
			"name":            "Q3 Renewal",
		}, authedCall())

	require.NoError(t, err)
	assert.True(t, result.OK())
	require.Len(t, deals.creates, 1)
	assert.Equal(t, "Q3 Renewal", deals.creates[0].Name)
}

func TestUpdateDealNotFound(t *testing.T) {
	reg := newDealRegistry(t, &fakeDealService{}, &fakeOrgService{})

	result, err := reg.Execute(context.Background(), ToolUpdateDeal,
		map[string]any{"deal_id": "deal-missing", "stage": "negotiation"}, authedCall())

	require.NoError(t, err)
	require.NotNil(t, result.Error)
	assert.Equal(t, ErrCodeDealNotFound, result.Error.Code)
}

func TestUpdateDealDiffsAmountAndStage(t *testing.T) {
	deals := &fakeDealService{deals: []crm.Deal{
		{ID: "deal-1", Name: "Q3 Renewal", Amount: 5000, Stage: "prospecting"},
	}}
	reg := newDealRegistry(t, deals, &fakeOrgService{})

	result, err := reg.Execute(context.Background(), ToolUpdateDeal,
		map[string]any{
			"deal_id": "deal-1",
			"amount":  7500.0,
			"stage":   "negotiation",
			"name":    "Q3 Renewal",
		}, authedCall())

	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, 2, result.Data["changes_detected"])
	require.Len(t, deals.updates, 1)
	patch := deals.updates[0]
	assert.Nil(t, patch.Name)
	require.NotNil(t, patch.Amount)
	assert.Equal(t, 7500.0, *patch.Amount)
	require.NotNil(t, patch.Stage)
	assert.Equal(t, "negotiation", *patch.Stage)
}

func TestUpdateDealNoChangesSkipsWrite(t *testing.T) {
	deals := &fakeDealService{deals: []crm.Deal{
		{ID: "deal-1", Name: "Q3 Renewal", Amount: 5000, Stage: "prospecting"},
	}}
	reg := newDealRegistry(t, deals, &fakeOrgService{})

	result, err := reg.Execute(context.Background(), ToolUpdateDeal,
		map[string]any{"deal_id": "deal-1", "amount": 5000.0}, authedCall())

	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, 0, result.Data["changes_detected"])
	assert.Empty(t, deals.updates)
}

func TestUpdateDealRejectsNonPositiveAmount(t *testing.T) {
	deals := &fakeDealService{deals: []crm.Deal{{ID: "deal-1", Amount: 5000}}}
	reg := newDealRegistry(t, deals, &fakeOrgService{})

	result, err := reg.Execute(context.Background(), ToolUpdateDeal,
		map[string]any{"deal_id": "deal-1", "amount": -1.0}, authedCall())

	require.NoError(t, err)
	require.NotNil(t, result.Error)
	assert.Equal(t, ErrCodeValidation, result.Error.Code)
}
