package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/zabbixmcp/zabbixmcp/internal/zabbix"
)

func TestGetHostsRendersList(t *testing.T) {
	registry, mock := newTestRegistry(t)
	mock.Handle("host.get", []zabbix.Host{
		{HostID: "1", Host: "web-01", Name: "Web server 01", Status: "0"},
		{HostID: "2", Host: "db-01", Name: "Database 01", Status: "1"},
	})

	result := registry.Invoke(context.Background(), "get_hosts", nil)
	if result.IsError {
		t.Fatalf("unexpected error: %q", result.Text)
	}
	if !strings.Contains(result.Text, "Found 2 hosts") {
		t.Errorf("text = %q", result.Text)
	}
	if !strings.Contains(result.Text, "Web server 01") || !strings.Contains(result.Text, "Status: Enabled") {
		t.Errorf("text = %q", result.Text)
	}
	if !strings.Contains(result.Text, "Status: Disabled") {
		t.Errorf("text = %q, disabled host misrendered", result.Text)
	}
}

func TestGetHostsEmpty(t *testing.T) {
	registry, mock := newTestRegistry(t)
	mock.Handle("host.get", []zabbix.Host{})

	result := registry.Invoke(context.Background(), "get_hosts", nil)
	if result.IsError || result.Text != "No hosts found" {
		t.Errorf("result = %+v", result)
	}
}

func TestGetHostDetailsNotFoundIsPlainText(t *testing.T) {
	registry, mock := newTestRegistry(t)
	mock.Handle("host.get", []zabbix.Host{})

	result := registry.Invoke(context.Background(), "get_host_details", Args{"hostname": "ghost"})
	// A missing host is an answer, not a failure.
	if result.IsError {
		t.Errorf("not-found must not flag an error: %q", result.Text)
	}
	if result.Text != "Host 'ghost' not found" {
		t.Errorf("text = %q", result.Text)
	}
}

func TestGetItemsScopedToHost(t *testing.T) {
	registry, mock := newTestRegistry(t)
	mock.Enqueue("host.get", []zabbix.Host{{HostID: "10084", Host: "web-01"}})
	mock.Handle("item.get", []zabbix.Item{
		{ItemID: "1", Name: "CPU utilization", Key: "system.cpu.util"},
	})

	result := registry.Invoke(context.Background(), "get_items", Args{"hostname": "web-01"})
	if result.IsError {
		t.Fatalf("unexpected error: %q", result.Text)
	}
	if !strings.Contains(result.Text, "CPU utilization") {
		t.Errorf("text = %q", result.Text)
	}

	itemCalls := mock.CallsFor("item.get")
	if len(itemCalls) != 1 {
		t.Fatalf("expected 1 item.get, got %d", len(itemCalls))
	}
	if got := itemCalls[0].Params["hostids"]; got != "10084" {
		t.Errorf("hostids = %v, want resolved host id", got)
	}
}

func TestGetSystemStatusCountsProblemTriggers(t *testing.T) {
	registry, mock := newTestRegistry(t)
	mock.Handle("host.get", []zabbix.Host{{HostID: "1"}, {HostID: "2"}})
	mock.Handle("problem.get", []zabbix.Problem{{EventID: "5", Name: "Disk full"}})
	mock.Handle("trigger.get", []zabbix.Trigger{
		{TriggerID: "1", Value: "1"},
		{TriggerID: "2", Value: "0"},
		{TriggerID: "3", Value: "1"},
	})

	result := registry.Invoke(context.Background(), "get_system_status", nil)
	if result.IsError {
		t.Fatalf("unexpected error: %q", result.Text)
	}
	for _, want := range []string{"Total Hosts: 2", "Active Problems: 1", "Total Triggers: 3", "Problem Triggers: 2"} {
		if !strings.Contains(result.Text, want) {
			t.Errorf("text missing %q:\n%s", want, result.Text)
		}
	}
}

func TestCreateHostPartialFailureIsReported(t *testing.T) {
	registry, mock := newTestRegistry(t)
	mock.Handle("host.create", map[string]any{"hostids": []string{"10500"}})
	mock.HandleError("hostinterface.create", -32500, "Application error.", "Incorrect value for field ip.")

	result := registry.Invoke(context.Background(), "create_host", Args{
		"hostname":     "db-01",
		"display_name": "Database 01",
		"ip_address":   "not-an-ip",
	})
	// Partial progress comes back as text with the created id, not as an
	// error flag.
	if result.IsError {
		t.Errorf("partial failure must not flag an error: %q", result.Text)
	}
	if !strings.Contains(result.Text, "Host created (ID: 10500)") {
		t.Errorf("text = %q, missing created host id", result.Text)
	}
	if !strings.Contains(result.Text, "interface creation failed") {
		t.Errorf("text = %q", result.Text)
	}
}

func TestCreateHostSuccess(t *testing.T) {
	registry, mock := newTestRegistry(t)
	mock.Handle("host.create", map[string]any{"hostids": []string{"10500"}})
	mock.Handle("hostinterface.create", map[string]any{"interfaceids": []string{"77"}})
	mock.Handle("host.update", map[string]any{"hostids": []string{"10500"}})

	result := registry.Invoke(context.Background(), "create_host", Args{
		"hostname":     "db-01",
		"display_name": "Database 01",
		"ip_address":   "10.0.0.7",
	})
	if result.IsError {
		t.Fatalf("unexpected error: %q", result.Text)
	}
	for _, want := range []string{"Host Created Successfully", "Host ID: 10500", "Interface ID: 77", "10.0.0.7:10050"} {
		if !strings.Contains(result.Text, want) {
			t.Errorf("text missing %q:\n%s", want, result.Text)
		}
	}
}

func TestLinkTemplateTool(t *testing.T) {
	registry, mock := newTestRegistry(t)
	mock.Enqueue("host.get", []zabbix.Host{{HostID: "10084", Host: "web-01"}})
	mock.Handle("template.get", []zabbix.Template{{TemplateID: "10264", Host: "Nginx by Zabbix agent"}})
	mock.Enqueue("host.get", []zabbix.Host{{HostID: "10084", Host: "web-01"}})
	mock.Handle("host.update", map[string]any{"hostids": []string{"10084"}})

	result := registry.Invoke(context.Background(), "link_template", Args{
		"hostname":      "web-01",
		"template_name": "Nginx by Zabbix agent",
	})
	if result.IsError {
		t.Fatalf("unexpected error: %q", result.Text)
	}
	if !strings.Contains(result.Text, "Successfully linked template") {
		t.Errorf("text = %q", result.Text)
	}
}

func TestUpdateUserNoChanges(t *testing.T) {
	registry, _ := newTestRegistry(t)

	result := registry.Invoke(context.Background(), "update_user", Args{"userid": "7"})
	if result.IsError {
		t.Fatalf("unexpected error: %q", result.Text)
	}
	if result.Text != "✅ No changes requested" {
		t.Errorf("text = %q", result.Text)
	}
}

func TestCheckHostInterfaceAvailabilityNotFound(t *testing.T) {
	registry, mock := newTestRegistry(t)
	mock.Handle("host.get", []zabbix.Host{})

	result := registry.Invoke(context.Background(), "check_host_interface_availability", Args{"hostid": "99999"})
	if result.IsError {
		t.Errorf("missing host must not flag an error: %q", result.Text)
	}
	if !strings.Contains(result.Text, "Host not found") {
		t.Errorf("text = %q", result.Text)
	}
	if !strings.Contains(result.Text, "UNKNOWN") {
		t.Errorf("text = %q, status should render unknown", result.Text)
	}
}

func TestFormatClock(t *testing.T) {
	if got := formatClock("not-a-number"); got != "unknown time" {
		t.Errorf("formatClock = %q", got)
	}
	if got := formatClock("0"); got == "unknown time" {
		t.Error("epoch should format")
	}
}
