package zabbix

import (
	"context"
	"fmt"
)

// Defaults for agent-monitored hosts, matching the stock Zabbix
// installation ids ("Linux servers" group, "Linux by Zabbix agent"
// template, agent port).
const (
	DefaultAgentPort  = "10050"
	DefaultGroupID    = "2"
	DefaultTemplateID = "10001"

	// Interface types accepted by hostinterface.create.
	InterfaceTypeAgent = "1"
	InterfaceTypeSNMP  = "2"
	InterfaceTypeIPMI  = "3"
	InterfaceTypeJMX   = "4"
)

// idsResponse covers the id-list shapes create/update calls return.
type idsResponse struct {
	HostIDs      []string `json:"hostids"`
	InterfaceIDs []string `json:"interfaceids"`
	UserIDs      []string `json:"userids"`
}

// LinkTemplate links a template to a host, preserving existing links.
// The API treats "templates" on host.update as a replace-all field, so
// the current list is fetched first and the new id appended. Linking an
// already-linked template is a successful no-op.
func (c *Client) LinkTemplate(ctx context.Context, hostID, templateID string) error {
	var hosts []Host
	err := c.callInto(ctx, "host.get", map[string]any{
		"output":                "extend",
		"hostids":               hostID,
		"selectParentTemplates": "extend",
	}, &hosts)
	if err != nil {
		return err
	}
	if len(hosts) == 0 {
		return &NotFoundError{Kind: "host", Name: hostID}
	}

	templates := make([]map[string]string, 0, len(hosts[0].ParentTemplates)+1)
	for _, t := range hosts[0].ParentTemplates {
		if t.TemplateID == templateID {
			c.logger.Warn("template already linked", "hostid", hostID, "templateid", templateID)
			return nil
		}
		templates = append(templates, map[string]string{"templateid": t.TemplateID})
	}
	templates = append(templates, map[string]string{"templateid": templateID})

	_, err = c.Call(ctx, "host.update", map[string]any{
		"hostid":    hostID,
		"templates": templates,
	})
	return err
}

// LinkTemplateByNames resolves both names and links the template.
func (c *Client) LinkTemplateByNames(ctx context.Context, hostname, templateName string) error {
	host, err := c.GetHostByName(ctx, hostname)
	if err != nil {
		return err
	}
	template, err := c.GetTemplateByName(ctx, templateName)
	if err != nil {
		return err
	}
	return c.LinkTemplate(ctx, host.HostID, template.TemplateID)
}

// InterfaceSpec describes a polling interface to create.
type InterfaceSpec struct {
	HostID string
	IP     string
	Port   string // DefaultAgentPort when empty
	Type   string // InterfaceTypeAgent when empty
}

// CreateHostInterface adds a primary IP interface to an existing host
// and returns the new interface id.
func (c *Client) CreateHostInterface(ctx context.Context, spec InterfaceSpec) (string, error) {
	if spec.Port == "" {
		spec.Port = DefaultAgentPort
	}
	if spec.Type == "" {
		spec.Type = InterfaceTypeAgent
	}

	var ids idsResponse
	err := c.callInto(ctx, "hostinterface.create", map[string]any{
		"hostid": spec.HostID,
		"type":   spec.Type,
		"main":   1,
		"useip":  1,
		"ip":     spec.IP,
		"dns":    "",
		"port":   spec.Port,
	}, &ids)
	if err != nil {
		return "", err
	}
	if len(ids.InterfaceIDs) == 0 {
		return "", fmt.Errorf("zabbix: hostinterface.create returned no interface id")
	}
	return ids.InterfaceIDs[0], nil
}

// HostSpec describes a host to create.
type HostSpec struct {
	Hostname    string // technical name
	DisplayName string // frontend name
	IP          string
	Port        string // DefaultAgentPort when empty
	GroupID     string // DefaultGroupID when empty
	TemplateID  string // DefaultTemplateID when empty
}

// HostCreation reports the progress of the three-step creation flow.
// StepFailed is empty on full success; otherwise it names the step that
// failed ("interface" or "template") and StepErr carries its error. Ids
// obtained before the failure are always populated so operators can
// clean up by hand; no rollback is attempted.
type HostCreation struct {
	HostID      string
	InterfaceID string
	TemplateID  string
	StepFailed  string
	StepErr     error
}

// CreateHost creates a host, its primary agent interface, and links a
// template, in that strict order (each step needs the previous step's
// id). The flow is deliberately not transactional: a host created in
// step 1 survives failures of steps 2 and 3.
func (c *Client) CreateHost(ctx context.Context, spec HostSpec) (*HostCreation, error) {
	if spec.Port == "" {
		spec.Port = DefaultAgentPort
	}
	if spec.GroupID == "" {
		spec.GroupID = DefaultGroupID
	}
	if spec.TemplateID == "" {
		spec.TemplateID = DefaultTemplateID
	}

	var ids idsResponse
	err := c.callInto(ctx, "host.create", map[string]any{
		"host":   spec.Hostname,
		"name":   spec.DisplayName,
		"groups": []map[string]string{{"groupid": spec.GroupID}},
	}, &ids)
	if err != nil {
		return nil, err
	}
	if len(ids.HostIDs) == 0 {
		return nil, fmt.Errorf("zabbix: host.create returned no host id")
	}

	creation := &HostCreation{HostID: ids.HostIDs[0], TemplateID: spec.TemplateID}

	interfaceID, err := c.CreateHostInterface(ctx, InterfaceSpec{
		HostID: creation.HostID,
		IP:     spec.IP,
		Port:   spec.Port,
	})
	if err != nil {
		creation.StepFailed = "interface"
		creation.StepErr = err
		return creation, nil
	}
	creation.InterfaceID = interfaceID

	_, err = c.Call(ctx, "host.update", map[string]any{
		"hostid":    creation.HostID,
		"templates": []map[string]string{{"templateid": spec.TemplateID}},
	})
	if err != nil {
		creation.StepFailed = "template"
		creation.StepErr = err
		return creation, nil
	}

	c.logger.Info("host created",
		"hostid", creation.HostID,
		"interfaceid", creation.InterfaceID,
		"templateid", creation.TemplateID,
	)
	return creation, nil
}
