package enhance

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Parse inspects one conversational turn and returns the detected entities,
// copyable data fragments, and suggested follow-up actions.
//
// Entity detection reads only the most recent tool call; earlier calls in
// the turn describe superseded operations and are ignored. Actionable-data
// extraction reads the free-text response only.
func Parse(response string, calls []ToolCall) Enhanced {
	var entities []DetectedEntity
	if len(calls) > 0 {
		entities = detectEntities(calls[len(calls)-1].Payload)
	}

	actionable := extractActionable(response)
	actions := suggestActions(response, entities)

	return Enhanced{
		Entities:        entities,
		Actionable:      actionable,
		Actions:         actions,
		HasEnhancements: len(entities) > 0 || len(actionable) > 0 || len(actions) > 0,
	}
}

// entitySet accumulates entities deduplicated by id. The first occurrence
// fixes the position; later writes for the same id replace the value, so
// the last record processed wins.
type entitySet struct {
	entities []DetectedEntity
	index    map[string]int
}

func newEntitySet() *entitySet {
	return &entitySet{index: make(map[string]int)}
}

func (s *entitySet) put(e DetectedEntity) {
	if i, ok := s.index[e.ID]; ok {
		s.entities[i] = e
		return
	}
	s.index[e.ID] = len(s.entities)
	s.entities = append(s.entities, e)
}

func detectEntities(payload json.RawMessage) []DetectedEntity {
	records := collectRecords(decodePayload(payload))
	if len(records) == 0 {
		return nil
	}

	set := newEntitySet()

	// Organizations first so deals can resolve organization_id against
	// their display names.
	organizationNames := make(map[string]string)
	for _, rec := range records {
		if !organizationShaped(rec) {
			continue
		}
		id := stringField(rec, "id")
		if id == "" {
			continue
		}
		name := stringField(rec, "name")
		organizationNames[id] = name
		set.put(DetectedEntity{Type: EntityOrganization, ID: id, Name: name})
	}

	for _, rec := range records {
		if !dealShaped(rec) {
			continue
		}
		id := stringField(rec, "id")
		if id == "" {
			continue
		}
		amount, _ := rec["amount"].(float64)
		orgName := organizationNames[stringField(rec, "organization_id")]

		name := stringField(rec, "name")
		if name == "" {
			if orgName != "" {
				name = orgName + " Opportunity"
			} else {
				name = "$" + strconv.FormatFloat(amount, 'f', -1, 64) + " Deal"
			}
		}

		set.put(DetectedEntity{
			Type:             EntityDeal,
			ID:               id,
			Name:             name,
			Amount:           amount,
			OrganizationName: orgName,
		})
	}

	for _, rec := range records {
		if !contactShaped(rec) {
			continue
		}
		id := stringField(rec, "id")
		if id == "" {
			continue
		}
		name := strings.TrimSpace(strings.TrimSpace(stringField(rec, "first_name")) + " " + strings.TrimSpace(stringField(rec, "last_name")))
		if name == "" {
			name = stringField(rec, "email")
		}
		set.put(DetectedEntity{
			Type: EntityContact,
			ID:   id,
			Name: name,
		})
	}

	return set.entities
}

// decodePayload unwraps a raw tool payload into a generic JSON value.
// Payloads sometimes arrive double-encoded (a JSON string containing JSON);
// one level of unwrapping is attempted.
func decodePayload(payload json.RawMessage) any {
	if len(payload) == 0 {
		return nil
	}

	var value any
	if err := json.Unmarshal(payload, &value); err != nil {
		return nil
	}
	if s, ok := value.(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(s), &inner); err == nil {
			return inner
		}
		return nil
	}
	return value
}

// collectRecords gathers candidate record objects from a decoded payload:
// the payload itself when it is an object or array of objects, plus object
// and array-of-object values one level deep. The one-level walk catches
// envelope shapes like {"organizations": [...]} and tool results carrying
// the record under a data key.
func collectRecords(value any) []map[string]any {
	var records []map[string]any

	appendValue := func(v any) {
		switch typed := v.(type) {
		case map[string]any:
			records = append(records, typed)
		case []any:
			for _, item := range typed {
				if rec, ok := item.(map[string]any); ok {
					records = append(records, rec)
				}
			}
		}
	}

	switch typed := value.(type) {
	case []any:
		appendValue(typed)
	case map[string]any:
		records = append(records, typed)
		for _, nested := range typed {
			appendValue(nested)
		}
	}

	return records
}

func stringField(rec map[string]any, key string) string {
	s, _ := rec[key].(string)
	return s
}

func hasField(rec map[string]any, key string) bool {
	_, ok := rec[key]
	return ok
}

// organizationShaped: has a name, no amount, and none of the person
// identity fields.
func organizationShaped(rec map[string]any) bool {
	return stringField(rec, "name") != "" &&
		!hasField(rec, "amount") &&
		!hasField(rec, "email") && !hasField(rec, "first_name") && !hasField(rec, "last_name")
}

// dealShaped: carries a numeric amount.
func dealShaped(rec map[string]any) bool {
	_, ok := rec["amount"].(float64)
	return ok
}

// contactShaped: has a person identity field and no amount.
func contactShaped(rec map[string]any) bool {
	if hasField(rec, "amount") {
		return false
	}
	return stringField(rec, "email") != "" ||
		stringField(rec, "first_name") != "" ||
		stringField(rec, "last_name") != ""
}

var (
	uuidPattern = regexp.MustCompile(
		`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`)
	amountPattern = regexp.MustCompile(
		`\$\s?[0-9][0-9,]*(?:\.[0-9]+)?|\b[0-9]+(?:\.[0-9]+)?\b`)
)

// minActionableAmount filters out small numbers (counts, ordinals, dates)
// that would otherwise clutter the copy affordances.
const minActionableAmount = 100

// extractActionable scans the free-text response for copyable fragments:
// record ids (UUIDs) and monetary amounts above the noise threshold.
func extractActionable(response string) []ActionableData {
	var out []ActionableData

	seen := make(map[string]bool)
	uuidSpans := uuidPattern.FindAllStringIndex(response, -1)
	for _, span := range uuidSpans {
		id := response[span[0]:span[1]]
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, ActionableData{
			Type:     "id",
			Value:    id,
			Label:    "Record ID",
			Copyable: true,
		})
	}

	for _, span := range amountPattern.FindAllStringIndex(response, -1) {
		if insideAny(span, uuidSpans) {
			// Digit runs inside an id are not amounts.
			continue
		}
		raw := response[span[0]:span[1]]
		cleaned := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || value <= minActionableAmount {
			continue
		}
		if seen[raw] {
			continue
		}
		seen[raw] = true
		out = append(out, ActionableData{
			Type:     "amount",
			Value:    cleaned,
			Label:    "Amount",
			Copyable: true,
		})
	}

	return out
}

func insideAny(span []int, outer [][]int) bool {
	for _, o := range outer {
		if span[0] >= o[0] && span[1] <= o[1] {
			return true
		}
	}
	return false
}
