package registry

// Core keys for GlobalRegistry.
const (
	// Extension registries (cmd, cron, api, routes) stored in GlobalRegistry
	KeyRegistryCmd    = "registry:cmd"
	KeyRegistryCron   = "registry:cron"
	KeyRegistryAPI    = "registry:api"
	KeyRegistryRoutes = "registry:routes"

	// Dynamic _extension resolvers for the GraphQL API
	KeyRegistryGraphQL = "registry:graphql"

	// Compiled-in handler symbols that extension manifests bind to
	KeySymbolsCommand = "symbols:command"
	KeySymbolsEvent   = "symbols:event"
)
