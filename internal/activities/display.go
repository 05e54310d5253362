package activities

import "strings"

// displayName derives the compact form of a user name used in log fields and
// prompts, ported from react_agent_activity.py's _execute_react_iteration:
// the first two underscore-separated segments of userName when it contains
// an underscore, the name unchanged otherwise.
func displayName(userName string) string {
	if !strings.Contains(userName, "_") {
		return userName
	}
	parts := strings.SplitN(userName, "_", 3)
	if len(parts) < 2 {
		return userName
	}
	return parts[0] + "_" + parts[1]
}
