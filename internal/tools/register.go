package tools

import (
	"github.com/pipedesk/assist/internal/crm"
	"github.com/pipedesk/assist/internal/log"
)

// RegisterAll wires every built-in tool into the registry. Services carry
// the CRM backends; store receives reasoning traces from the think tool.
func RegisterAll(reg *Registry, services crm.Services, store ReasoningStore, logger log.Logger) {
	RegisterOrganizationTools(reg, services.Organizations, logger)
	RegisterPersonTools(reg, services.People, logger)
	RegisterDealTools(reg, services.Deals, services.Organizations, logger)
	RegisterThinkTool(reg, store, logger)

	logger.Info("tools registered", "count", reg.Count())
}
