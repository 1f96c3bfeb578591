package enhance

import "strings"

// Keyword lists for the two context-sensitive actions. Matching is plain
// case-insensitive containment; this is deliberately heuristic.
var (
	creationKeywords = []string{"created", "creating", "added"}
	searchKeywords   = []string{"search", "found", "matching"}
)

// suggestActions emits the fixed action set for each detected entity plus
// the context-sensitive actions derived from the response text. Action ids
// are stable (`<verb>-<type>-<id>`) and each entity-bound action carries
// the entity id explicitly so consumers join by equality.
func suggestActions(response string, entities []DetectedEntity) []SuggestedAction {
	var actions []SuggestedAction

	for _, e := range entities {
		switch e.Type {
		case EntityDeal:
			actions = append(actions,
				SuggestedAction{
					ID:       "view-deal-" + e.ID,
					Label:    "View Deal",
					Icon:     "eye",
					Action:   ActionView,
					Target:   "/deals/" + e.ID,
					EntityID: e.ID,
				},
				SuggestedAction{
					ID:       "edit-deal-" + e.ID,
					Label:    "Edit Deal",
					Icon:     "pencil",
					Action:   ActionEdit,
					Target:   "/deals/" + e.ID + "/edit",
					EntityID: e.ID,
				},
			)
		case EntityOrganization:
			actions = append(actions,
				SuggestedAction{
					ID:       "view-organization-" + e.ID,
					Label:    "View Organization",
					Icon:     "building",
					Action:   ActionView,
					Target:   "/organizations/" + e.ID,
					EntityID: e.ID,
				},
				SuggestedAction{
					ID:       "add-contact-organization-" + e.ID,
					Label:    "Add Contact",
					Icon:     "user-plus",
					Action:   ActionCreate,
					Target:   "/organizations/" + e.ID + "/contacts/new",
					EntityID: e.ID,
				},
			)
		case EntityContact:
			actions = append(actions, SuggestedAction{
				ID:       "view-contact-" + e.ID,
				Label:    "View Contact",
				Icon:     "user",
				Action:   ActionView,
				Target:   "/contacts/" + e.ID,
				EntityID: e.ID,
			})
		}
	}

	lower := strings.ToLower(response)
	if containsAny(lower, creationKeywords) {
		actions = append(actions, SuggestedAction{
			ID:     "create-another-deal",
			Label:  "Create Another Deal",
			Icon:   "plus",
			Action: ActionCreate,
			Target: "/deals/new",
		})
	}
	if len(entities) > 0 && containsAny(lower, searchKeywords) {
		actions = append(actions, SuggestedAction{
			ID:     "refine-search",
			Label:  "Refine Search",
			Icon:   "magnifier",
			Action: ActionNavigate,
			Target: "/search",
		})
	}

	return actions
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
