package rest

const (
	// pipeline
	RouteUploadTarget = "/upload-target"
	RouteAnalyze      = "/analyze"

	// auth
	RouteAuth     = "/auth"
	RouteSignUp   = RouteAuth + "/signup"
	RouteLogin    = RouteAuth + "/login"
	RouteLogout   = RouteAuth + "/logout"
	RouteIdentity = RouteAuth + "/identity"

	RouteUsers        = "/users"
	RouteUserLookup   = RouteUsers + "/lookup"
	RouteUser         = RouteUsers + "/:user_id"
	RouteUserAnalyses = RouteUser + "/analyses"

	// ops
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
