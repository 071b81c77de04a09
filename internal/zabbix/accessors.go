package zabbix

import "context"

// Accessors supply per-entity default query parameters and merge
// caller-supplied overrides on top (overrides win on key collision).

// GetHosts lists hosts with interfaces expanded.
func (c *Client) GetHosts(ctx context.Context, overrides map[string]any) ([]Host, error) {
	params := mergeParams(map[string]any{
		"output":           "extend",
		"selectInterfaces": "extend",
	}, overrides)

	var hosts []Host
	if err := c.callInto(ctx, "host.get", params, &hosts); err != nil {
		return nil, err
	}
	return hosts, nil
}

// GetHostByName returns the host whose technical name matches exactly,
// or a *NotFoundError when no host matches.
func (c *Client) GetHostByName(ctx context.Context, hostname string) (*Host, error) {
	var hosts []Host
	err := c.callInto(ctx, "host.get", map[string]any{
		"output":                "extend",
		"filter":                map[string]any{"host": hostname},
		"selectInterfaces":      "extend",
		"selectParentTemplates": "extend",
	}, &hosts)
	if err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		return nil, &NotFoundError{Kind: "host", Name: hostname}
	}
	return &hosts[0], nil
}

// GetTriggers lists triggers with their hosts expanded.
func (c *Client) GetTriggers(ctx context.Context, overrides map[string]any) ([]Trigger, error) {
	params := mergeParams(map[string]any{
		"output":      "extend",
		"selectHosts": "extend",
	}, overrides)

	var triggers []Trigger
	if err := c.callInto(ctx, "trigger.get", params, &triggers); err != nil {
		return nil, err
	}
	return triggers, nil
}

// GetEvents lists recent events, newest-sorted by clock.
func (c *Client) GetEvents(ctx context.Context, limit int, overrides map[string]any) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	params := mergeParams(map[string]any{
		"output":      "extend",
		"limit":       limit,
		"sortfield":   "clock",
		"selectHosts": "extend",
	}, overrides)

	var events []Event
	if err := c.callInto(ctx, "event.get", params, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetProblems lists active problems.
func (c *Client) GetProblems(ctx context.Context, overrides map[string]any) ([]Problem, error) {
	params := mergeParams(map[string]any{
		"output": "extend",
		"recent": true,
	}, overrides)

	var problems []Problem
	if err := c.callInto(ctx, "problem.get", params, &problems); err != nil {
		return nil, err
	}
	return problems, nil
}

// GetItems lists items, scoped to a host when hostID is non-empty.
func (c *Client) GetItems(ctx context.Context, hostID string, overrides map[string]any) ([]Item, error) {
	defaults := map[string]any{
		"output":          "extend",
		"selectHosts":     "extend",
		"selectValueMaps": "extend",
	}
	if hostID != "" {
		defaults["hostids"] = hostID
	}
	params := mergeParams(defaults, overrides)

	var items []Item
	if err := c.callInto(ctx, "item.get", params, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetHistory returns collected values for an item, newest-sorted.
func (c *Client) GetHistory(ctx context.Context, itemID string, limit int, overrides map[string]any) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	params := mergeParams(map[string]any{
		"output":    "extend",
		"itemids":   itemID,
		"limit":     limit,
		"sortfield": "clock",
	}, overrides)

	var history []HistoryEntry
	if err := c.callInto(ctx, "history.get", params, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// AcknowledgeEvent acknowledges problem events with an optional message.
func (c *Client) AcknowledgeEvent(ctx context.Context, eventIDs []string, message string) error {
	_, err := c.Call(ctx, "event.acknowledge", map[string]any{
		"eventids": eventIDs,
		"action":   1,
		"message":  message,
	})
	return err
}

// GetHostGroups lists host groups.
func (c *Client) GetHostGroups(ctx context.Context, overrides map[string]any) ([]HostGroup, error) {
	params := mergeParams(map[string]any{"output": "extend"}, overrides)

	var groups []HostGroup
	if err := c.callInto(ctx, "hostgroup.get", params, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetDashboards lists frontend dashboards.
func (c *Client) GetDashboards(ctx context.Context, overrides map[string]any) ([]Dashboard, error) {
	params := mergeParams(map[string]any{"output": "extend"}, overrides)

	var dashboards []Dashboard
	if err := c.callInto(ctx, "dashboard.get", params, &dashboards); err != nil {
		return nil, err
	}
	return dashboards, nil
}

// GetTemplates lists templates.
func (c *Client) GetTemplates(ctx context.Context, overrides map[string]any) ([]Template, error) {
	params := mergeParams(map[string]any{"output": "extend"}, overrides)

	var templates []Template
	if err := c.callInto(ctx, "template.get", params, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// GetTemplateByName returns the template whose technical name matches
// exactly, or a *NotFoundError when no template matches.
func (c *Client) GetTemplateByName(ctx context.Context, name string) (*Template, error) {
	var templates []Template
	err := c.callInto(ctx, "template.get", map[string]any{
		"output": "extend",
		"filter": map[string]any{"host": name},
	}, &templates)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, &NotFoundError{Kind: "template", Name: name}
	}
	return &templates[0], nil
}

// GetRoles lists permission roles.
func (c *Client) GetRoles(ctx context.Context) ([]Role, error) {
	var roles []Role
	err := c.callInto(ctx, "role.get", map[string]any{
		"output": []string{"roleid", "name", "type"},
	}, &roles)
	if err != nil {
		return nil, err
	}
	return roles, nil
}
