package tools

// Tool describes one catalog entry: the name and argument names are the
// compatibility contract with callers and must not change.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`

	handler HandlerFunc
}

// InputSchema is the JSON-schema descriptor for a tool's arguments.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes one argument.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

func noArgs() InputSchema {
	return InputSchema{Type: "object", Properties: map[string]Property{}}
}

func catalog() []Tool {
	return []Tool{
		{
			Name:        "get_hosts",
			Description: "List all monitored hosts in Zabbix",
			InputSchema: noArgs(),
			handler:     handleGetHosts,
		},
		{
			Name:        "get_problems",
			Description: "Get active problems/alerts",
			InputSchema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"limit": {Type: "integer"}},
			},
			handler: handleGetProblems,
		},
		{
			Name:        "get_triggers",
			Description: "List triggers with their current status",
			InputSchema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"limit": {Type: "integer"}},
			},
			handler: handleGetTriggers,
		},
		{
			Name:        "get_events",
			Description: "Get recent events from Zabbix",
			InputSchema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"limit": {Type: "integer"}},
			},
			handler: handleGetEvents,
		},
		{
			Name:        "get_host_details",
			Description: "Get detailed information about a specific host",
			InputSchema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"hostname": {Type: "string"}},
				Required:   []string{"hostname"},
			},
			handler: handleGetHostDetails,
		},
		{
			Name:        "get_items",
			Description: "Get monitored items (metrics)",
			InputSchema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"hostname": {Type: "string"}},
			},
			handler: handleGetItems,
		},
		{
			Name:        "get_host_groups",
			Description: "List all host groups",
			InputSchema: noArgs(),
			handler:     handleGetHostGroups,
		},
		{
			Name:        "get_system_status",
			Description: "Get overall system status and statistics",
			InputSchema: noArgs(),
			handler:     handleGetSystemStatus,
		},
		{
			Name:        "get_templates",
			Description: "List all available templates",
			InputSchema: noArgs(),
			handler:     handleGetTemplates,
		},
		{
			Name:        "link_template",
			Description: "Link a template to a host by names (hostname and template name)",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"hostname":      {Type: "string", Description: "Host name"},
					"template_name": {Type: "string", Description: "Template name"},
				},
				Required: []string{"hostname", "template_name"},
			},
			handler: handleLinkTemplate,
		},
		{
			Name:        "create_user",
			Description: "Create a new Zabbix user with specified role",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"username": {Type: "string", Description: "Unique username"},
					"password": {Type: "string", Description: "User password"},
					"role":     {Type: "string", Description: "Role name (default: Super admin role)"},
					"email":    {Type: "string", Description: "Optional email address"},
					"name":     {Type: "string", Description: "Optional first name"},
					"surname":  {Type: "string", Description: "Optional last name"},
				},
				Required: []string{"username", "password"},
			},
			handler: handleCreateUser,
		},
		{
			Name:        "update_user",
			Description: "Update user properties (password, role, etc.)",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"userid":           {Type: "string", Description: "User ID"},
					"password":         {Type: "string", Description: "New password"},
					"current_password": {Type: "string", Description: "Current password (required if changing password)"},
					"roleid":           {Type: "string", Description: "New role ID"},
				},
				Required: []string{"userid"},
			},
			handler: handleUpdateUser,
		},
		{
			Name:        "get_roles",
			Description: "List all available Zabbix roles",
			InputSchema: noArgs(),
			handler:     handleGetRoles,
		},
		{
			Name:        "check_host_interface_availability",
			Description: "Check if host interface (agent) is available",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"hostid": {Type: "string", Description: "Host ID"},
				},
				Required: []string{"hostid"},
			},
			handler: handleCheckHostInterfaceAvailability,
		},
		{
			Name:        "create_host",
			Description: "Create a new Zabbix host (monitor). Use this to add new containers/servers to monitoring.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"hostname":     {Type: "string", Description: "Internal hostname identifier (e.g., 'my-server')"},
					"display_name": {Type: "string", Description: "Display name shown in Zabbix frontend"},
					"ip_address":   {Type: "string", Description: "IP address for agent polling (e.g., 10.0.0.5)"},
					"port":         {Type: "string", Description: "Agent port (default: 10050)"},
					"group_id":     {Type: "string", Description: "Host group ID (default: 2 for 'Linux servers')"},
					"template_id":  {Type: "string", Description: "Template ID to auto-link items (default: 10001 for 'Linux by Zabbix agent')"},
				},
				Required: []string{"hostname", "display_name", "ip_address"},
			},
			handler: handleCreateHost,
		},
		{
			Name:        "add_host_interface",
			Description: "Add a network interface to an existing host for polling by Zabbix server",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"hostid":         {Type: "string", Description: "Host ID"},
					"ip_address":     {Type: "string", Description: "IP address for polling"},
					"port":           {Type: "string", Description: "Agent port (default: 10050)"},
					"interface_type": {Type: "string", Description: "Interface type: 1=Agent (default), 2=SNMP, 3=IPMI, 4=JMX"},
				},
				Required: []string{"hostid", "ip_address"},
			},
			handler: handleAddHostInterface,
		},
	}
}
