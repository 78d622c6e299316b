package smoke

// Check is one GET against the backend.
type Check struct {
	Name string
	Path string
}

// HealthPath is the check whose JSON body carries service and version.
const HealthPath = "/health"

// DefaultChecks are run in this order.
var DefaultChecks = []Check{
	{Name: "Health Check", Path: HealthPath},
	{Name: "Properties Endpoint", Path: "/api/properties"},
	{Name: "Dashboard Stats", Path: "/api/dashboard/stats"},
	{Name: "Contract Templates", Path: "/api/contract-templates"},
}
