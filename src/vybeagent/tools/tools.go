// Package tools re-exports the agent tool constructors, barrel style, so
// callers can assemble tool groups from one import.
package tools

import (
	"github.com/vybelabs/vybe/src/agent"
	tool_collectionactivities "github.com/vybelabs/vybe/src/vybeagent/tools/tool_collectionactivities"
	tool_collectionstats "github.com/vybelabs/vybe/src/vybeagent/tools/tool_collectionstats"
	tool_latestprofiles "github.com/vybelabs/vybe/src/vybeagent/tools/tool_latestprofiles"
	tool_popularcollections "github.com/vybelabs/vybe/src/vybeagent/tools/tool_popularcollections"
	tool_searchtoken "github.com/vybelabs/vybe/src/vybeagent/tools/tool_searchtoken"
	tool_swaptokens "github.com/vybelabs/vybe/src/vybeagent/tools/tool_swaptokens"
	tool_tokenorders "github.com/vybelabs/vybe/src/vybeagent/tools/tool_tokenorders"
	tool_tokenprice "github.com/vybelabs/vybe/src/vybeagent/tools/tool_tokenprice"
	tool_tokenprofile "github.com/vybelabs/vybe/src/vybeagent/tools/tool_tokenprofile"
	tool_trendingtokens "github.com/vybelabs/vybe/src/vybeagent/tools/tool_trendingtokens"
	tool_walletportfolio "github.com/vybelabs/vybe/src/vybeagent/tools/tool_walletportfolio"
	tool_webreader "github.com/vybelabs/vybe/src/vybeagent/tools/tool_webreader"
)

// Tool name constants - re-exported from individual packages
const (
	WalletPortfolioName      = tool_walletportfolio.Name
	SwapTokensName           = tool_swaptokens.Name
	SearchTokenName          = tool_searchtoken.Name
	TokenPriceName           = tool_tokenprice.Name
	TrendingTokensName       = tool_trendingtokens.Name
	TokenOrdersName          = tool_tokenorders.Name
	TokenProfileName         = tool_tokenprofile.Name
	LatestProfilesName       = tool_latestprofiles.Name
	CollectionStatsName      = tool_collectionstats.Name
	CollectionActivitiesName = tool_collectionactivities.Name
	PopularCollectionsName   = tool_popularcollections.Name
	WebReaderName            = tool_webreader.Name
)

func WalletPortfolioTool(cfg tool_walletportfolio.Config) (agent.Tool, error) {
	return tool_walletportfolio.Tool(cfg)
}

func SwapTokensTool(swapper tool_swaptokens.Swapper) (agent.Tool, error) {
	return tool_swaptokens.Tool(swapper)
}

func SearchTokenTool(cfg tool_searchtoken.Config) (agent.Tool, error) {
	return tool_searchtoken.Tool(cfg)
}

func TokenPriceTool(cfg tool_tokenprice.Config) (agent.Tool, error) {
	return tool_tokenprice.Tool(cfg)
}

func TrendingTokensTool(cfg tool_trendingtokens.Config) (agent.Tool, error) {
	return tool_trendingtokens.Tool(cfg)
}

func TokenOrdersTool(cfg tool_tokenorders.Config) (agent.Tool, error) {
	return tool_tokenorders.Tool(cfg)
}

func TokenProfileTool(cfg tool_tokenprofile.Config) (agent.Tool, error) {
	return tool_tokenprofile.Tool(cfg)
}

func LatestProfilesTool(cfg tool_latestprofiles.Config) (agent.Tool, error) {
	return tool_latestprofiles.Tool(cfg)
}

func CollectionStatsTool(cfg tool_collectionstats.Config) (agent.Tool, error) {
	return tool_collectionstats.Tool(cfg)
}

func CollectionActivitiesTool(cfg tool_collectionactivities.Config) (agent.Tool, error) {
	return tool_collectionactivities.Tool(cfg)
}

func PopularCollectionsTool(cfg tool_popularcollections.Config) (agent.Tool, error) {
	return tool_popularcollections.Tool(cfg)
}

func WebReaderTool(cfg tool_webreader.Config) (agent.Tool, error) {
	return tool_webreader.Tool(cfg)
}
