package zabbix

import (
	"context"
	"testing"
)

func TestLinkTemplateAlreadyLinkedIsNoOp(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("host.get", []Host{{
		HostID: "10084",
		Host:   "web-01",
		ParentTemplates: []Template{
			{TemplateID: "10001", Host: "Linux by Zabbix agent"},
		},
	}})

	client := authedClient(t, mock)
	if err := client.LinkTemplate(context.Background(), "10084", "10001"); err != nil {
		t.Fatalf("LinkTemplate failed: %v", err)
	}

	if updates := mock.CallsFor("host.update"); len(updates) != 0 {
		t.Errorf("already-linked template must not trigger host.update, got %d calls", len(updates))
	}
}

func TestLinkTemplatePreservesExistingLinks(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("host.get", []Host{{
		HostID: "10084",
		ParentTemplates: []Template{
			{TemplateID: "10050"},
		},
	}})
	mock.Handle("host.update", map[string]any{"hostids": []string{"10084"}})

	client := authedClient(t, mock)
	if err := client.LinkTemplate(context.Background(), "10084", "10001"); err != nil {
		t.Fatalf("LinkTemplate failed: %v", err)
	}

	updates := mock.CallsFor("host.update")
	if len(updates) != 1 {
		t.Fatalf("expected 1 host.update, got %d", len(updates))
	}
	templates, ok := updates[0].Params["templates"].([]any)
	if !ok || len(templates) != 2 {
		t.Fatalf("templates = %v, want existing plus new", updates[0].Params["templates"])
	}
	last := templates[1].(map[string]any)
	if last["templateid"] != "10001" {
		t.Errorf("new template id = %v, want 10001", last["templateid"])
	}
}

func TestLinkTemplateHostNotFound(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("host.get", []Host{})

	client := authedClient(t, mock)
	err := client.LinkTemplate(context.Background(), "99999", "10001")
	if err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestCreateHostRunsStepsInOrder(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("host.create", map[string]any{"hostids": []string{"10500"}})
	mock.Handle("hostinterface.create", map[string]any{"interfaceids": []string{"77"}})
	mock.Handle("host.update", map[string]any{"hostids": []string{"10500"}})

	client := authedClient(t, mock)
	creation, err := client.CreateHost(context.Background(), HostSpec{
		Hostname:    "db-01",
		DisplayName: "Database 01",
		IP:          "10.0.0.7",
	})
	if err != nil {
		t.Fatalf("CreateHost failed: %v", err)
	}

	if creation.HostID != "10500" || creation.InterfaceID != "77" {
		t.Errorf("creation = %+v", creation)
	}
	if creation.StepFailed != "" {
		t.Errorf("StepFailed = %q, want success", creation.StepFailed)
	}
	if creation.TemplateID != DefaultTemplateID {
		t.Errorf("template id = %q, want default %s", creation.TemplateID, DefaultTemplateID)
	}

	var order []string
	for _, c := range mock.Calls() {
		if c.Method != "user.login" {
			order = append(order, c.Method)
		}
	}
	want := []string{"host.create", "hostinterface.create", "host.update"}
	if len(order) != len(want) {
		t.Fatalf("calls = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("calls = %v, want %v", order, want)
		}
	}

	// Steps 2 and 3 must target the host created in step 1.
	iface := mock.CallsFor("hostinterface.create")[0]
	if iface.Params["hostid"] != "10500" {
		t.Errorf("interface hostid = %v", iface.Params["hostid"])
	}
	update := mock.CallsFor("host.update")[0]
	if update.Params["hostid"] != "10500" {
		t.Errorf("update hostid = %v", update.Params["hostid"])
	}
}

func TestCreateHostInterfaceStepFailure(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("host.create", map[string]any{"hostids": []string{"10500"}})
	mock.HandleError("hostinterface.create", -32500, "Application error.", "Incorrect value for field ip.")

	client := authedClient(t, mock)
	creation, err := client.CreateHost(context.Background(), HostSpec{
		Hostname:    "db-01",
		DisplayName: "Database 01",
		IP:          "not-an-ip",
	})
	if err != nil {
		t.Fatalf("partial failure must not surface as an error, got %v", err)
	}

	if creation.HostID != "10500" {
		t.Errorf("hostid = %q, want 10500 so operators can clean up", creation.HostID)
	}
	if creation.StepFailed != "interface" {
		t.Errorf("StepFailed = %q, want interface", creation.StepFailed)
	}
	if creation.StepErr == nil {
		t.Error("StepErr should carry the step's error")
	}
	if updates := mock.CallsFor("host.update"); len(updates) != 0 {
		t.Errorf("template step must not run after interface failure, got %d calls", len(updates))
	}
}

func TestCreateHostTemplateStepFailure(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("host.create", map[string]any{"hostids": []string{"10500"}})
	mock.Handle("hostinterface.create", map[string]any{"interfaceids": []string{"77"}})
	mock.HandleError("host.update", -32500, "Application error.", "No permissions to referred object.")

	client := authedClient(t, mock)
	creation, err := client.CreateHost(context.Background(), HostSpec{
		Hostname:    "db-01",
		DisplayName: "Database 01",
		IP:          "10.0.0.7",
		TemplateID:  "10264",
	})
	if err != nil {
		t.Fatalf("partial failure must not surface as an error, got %v", err)
	}
	if creation.StepFailed != "template" {
		t.Errorf("StepFailed = %q, want template", creation.StepFailed)
	}
	if creation.InterfaceID != "77" {
		t.Errorf("interface id = %q, want 77", creation.InterfaceID)
	}
}

func TestCreateHostInterfaceDefaults(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("hostinterface.create", map[string]any{"interfaceids": []string{"78"}})

	client := authedClient(t, mock)
	id, err := client.CreateHostInterface(context.Background(), InterfaceSpec{
		HostID: "10084",
		IP:     "10.0.0.9",
	})
	if err != nil {
		t.Fatalf("CreateHostInterface failed: %v", err)
	}
	if id != "78" {
		t.Errorf("interface id = %q, want 78", id)
	}

	call := mock.CallsFor("hostinterface.create")[0]
	if call.Params["port"] != DefaultAgentPort {
		t.Errorf("port = %v, want default %s", call.Params["port"], DefaultAgentPort)
	}
	if call.Params["type"] != InterfaceTypeAgent {
		t.Errorf("type = %v, want agent", call.Params["type"])
	}
	if call.Params["main"] != float64(1) || call.Params["useip"] != float64(1) {
		t.Errorf("main/useip = %v/%v, want 1/1", call.Params["main"], call.Params["useip"])
	}
}
