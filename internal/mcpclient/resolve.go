package mcpclient

// ResolveToolName computes the wire-level tool name a call should use when
// talking to server. Some deployments front every MCP server with a single
// mounting proxy that namespaces each tool by the server that hosts it
// ("{server}_{tool}"); others dial each server directly, in which case the
// bare tool name is already unambiguous. useProxy selects between the two,
// matching the MCP_USE_PROXY deployment setting.
func ResolveToolName(useProxy bool, server, tool string) string {
	if !useProxy {
		return tool
	}
	return server + "_" + tool
}
