package enhance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(payload string) ToolCall {
	return ToolCall{Name: "test", Payload: json.RawMessage(payload)}
}

func entityByID(t *testing.T, entities []DetectedEntity, id string) DetectedEntity {
	t.Helper()
	for _, e := range entities {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("no entity with id %q in %+v", id, entities)
	return DetectedEntity{}
}

func TestParseDetectsOrganizationArray(t *testing.T) {
	result := Parse("", []ToolCall{call(`[
		{"id": "org-1", "name": "Acme Corp"},
		{"id": "org-2", "name": "Initech"}
	]`)})

	require.Len(t, result.Entities, 2)
	assert.Equal(t, EntityOrganization, result.Entities[0].Type)
	assert.Equal(t, "Acme Corp", result.Entities[0].Name)
	assert.True(t, result.HasEnhancements)
}

func TestParseDetectsSingleDealWithOrganizationResolution(t *testing.T) {
	result := Parse("", []ToolCall{call(`{
		"organizations": [{"id": "org-1", "name": "Acme Corp"}],
		"deal": {"id": "d1", "name": "", "amount": 5000, "organization_id": "org-1"}
	}`)})

	deal := entityByID(t, result.Entities, "d1")
	assert.Equal(t, EntityDeal, deal.Type)
	assert.Equal(t, "Acme Corp", deal.OrganizationName)
	assert.Equal(t, "Acme Corp Opportunity", deal.Name, "blank deal names are synthesized")
	assert.Equal(t, 5000.0, deal.Amount)
}

func TestParseSynthesizesDealNameFromAmount(t *testing.T) {
	result := Parse("", []ToolCall{call(`{"id": "d1", "amount": 7500}`)})

	deal := entityByID(t, result.Entities, "d1")
	assert.Equal(t, "$7500 Deal", deal.Name)
}

func TestParseDetectsContacts(t *testing.T) {
	result := Parse("", []ToolCall{call(`[
		{"id": "p1", "first_name": "Jane", "last_name": "Doe", "email": "jane@acme.com"},
		{"id": "p2", "email": "ops@acme.com"}
	]`)})

	require.Len(t, result.Entities, 2)
	assert.Equal(t, EntityContact, result.Entities[0].Type)
	assert.Equal(t, "Jane Doe", result.Entities[0].Name)
	assert.Equal(t, "ops@acme.com", result.Entities[1].Name, "email stands in for a missing name")
}

func TestParseDedupesByIDLastWins(t *testing.T) {
	result := Parse("", []ToolCall{call(`[
		{"id": "d1", "name": "Old Name", "amount": 1000},
		{"id": "d1", "name": "New Name", "amount": 2000}
	]`)})

	require.Len(t, result.Entities, 1)
	assert.Equal(t, "New Name", result.Entities[0].Name)
	assert.Equal(t, 2000.0, result.Entities[0].Amount)
}

func TestParseOnlyScansLastToolCall(t *testing.T) {
	result := Parse("", []ToolCall{
		call(`{"id": "org-A", "name": "Stale Org"}`),
		call(`{"id": "org-B", "name": "Fresh Org"}`),
	})

	require.Len(t, result.Entities, 1)
	assert.Equal(t, "org-B", result.Entities[0].ID)
}

func TestParseDoubleEncodedPayload(t *testing.T) {
	result := Parse("", []ToolCall{call(`"{\"id\": \"org-1\", \"name\": \"Acme Corp\"}"`)})

	require.Len(t, result.Entities, 1)
	assert.Equal(t, "org-1", result.Entities[0].ID)
}

func TestParseIgnoresMalformedPayload(t *testing.T) {
	result := Parse("", []ToolCall{call(`{not json`)})

	assert.Empty(t, result.Entities)
	assert.False(t, result.HasEnhancements)
}

func TestParseNoCalls(t *testing.T) {
	result := Parse("Nothing to see here.", nil)

	assert.Empty(t, result.Entities)
	assert.Empty(t, result.Actionable)
	assert.False(t, result.HasEnhancements)
}

func TestExtractActionableUUIDs(t *testing.T) {
	result := Parse("Created record 123e4567-e89b-12d3-a456-426614174000 for you.", nil)

	require.Len(t, result.Actionable, 1, "digits inside the id must not surface as amounts")
	assert.Equal(t, "id", result.Actionable[0].Type)
	assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", result.Actionable[0].Value)
	assert.True(t, result.Actionable[0].Copyable)
}

func TestExtractActionableAmounts(t *testing.T) {
	result := Parse("The deal is worth $5,000 and closes in 3 weeks.", nil)

	var amounts []string
	for _, a := range result.Actionable {
		if a.Type == "amount" {
			amounts = append(amounts, a.Value)
		}
	}
	require.Len(t, amounts, 1, "small numbers must be filtered out")
	assert.Equal(t, "5000", amounts[0])
}

func TestSuggestedActionsForDeal(t *testing.T) {
	result := Parse("", []ToolCall{call(`{"id": "d1", "amount": 5000}`)})

	var ids []string
	for _, a := range result.Actions {
		ids = append(ids, a.ID)
	}
	assert.Contains(t, ids, "view-deal-d1")
	assert.Contains(t, ids, "edit-deal-d1")

	seen := make(map[string]int)
	for _, a := range result.Actions {
		seen[a.ID]++
		assert.Equal(t, "d1", a.EntityID, "entity-bound actions carry the entity id")
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "action %q duplicated", id)
	}
}

func TestSuggestedActionsForOrganization(t *testing.T) {
	result := Parse("", []ToolCall{call(`{"id": "org-1", "name": "Acme Corp"}`)})

	var ids []string
	for _, a := range result.Actions {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []string{"view-organization-org-1", "add-contact-organization-org-1"}, ids)
}

func TestContextualCreateAction(t *testing.T) {
	result := Parse("I created the deal for you.", nil)

	require.Len(t, result.Actions, 1)
	assert.Equal(t, "create-another-deal", result.Actions[0].ID)
	assert.Empty(t, result.Actions[0].EntityID)
	assert.True(t, result.HasEnhancements)
}

func TestContextualRefineSearchNeedsEntities(t *testing.T) {
	// Search language without any detected entity stays quiet.
	noEntities := Parse("I searched but found nothing relevant.", nil)
	for _, a := range noEntities.Actions {
		assert.NotEqual(t, "refine-search", a.ID)
	}

	withEntities := Parse("I found these organizations.", []ToolCall{
		call(`[{"id": "org-1", "name": "Acme Corp"}]`),
	})
	var ids []string
	for _, a := range withEntities.Actions {
		ids = append(ids, a.ID)
	}
	assert.Contains(t, ids, "refine-search")
}

func TestParseIsDeterministic(t *testing.T) {
	response := "Created deal 123e4567-e89b-12d3-a456-426614174000 worth $5,000."
	calls := []ToolCall{call(`{"id": "d1", "amount": 5000, "name": "Big Deal"}`)}

	first := Parse(response, calls)
	second := Parse(response, calls)
	assert.Equal(t, first, second)
}
