package tools

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zabbixmcp/zabbixmcp/internal/users"
	"github.com/zabbixmcp/zabbixmcp/internal/zabbix"
)

func handleGetHosts(ctx context.Context, deps *Deps, args Args) (string, error) {
	hosts, err := deps.Client.GetHosts(ctx, nil)
	if err != nil {
		return "", err
	}
	if len(hosts) == 0 {
		return "No hosts found", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Found %d hosts:\n\n", len(hosts))
	for _, h := range truncate(hosts, 20) {
		fmt.Fprintf(&b, "🖥️ %s (%s)\n", orUnknown(h.Name), orNA(h.Host))
		fmt.Fprintf(&b, "   Status: %s\n", hostStatus(h.Status))
	}
	if len(hosts) > 20 {
		fmt.Fprintf(&b, "\n... and %d more hosts", len(hosts)-20)
	}
	return b.String(), nil
}

func handleGetProblems(ctx context.Context, deps *Deps, args Args) (string, error) {
	limit := args.Int("limit", 50)
	problems, err := deps.Client.GetProblems(ctx, map[string]any{"limit": limit})
	if err != nil {
		return "", err
	}
	if len(problems) == 0 {
		return "✅ No active problems", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ Active Problems: %d\n\n", len(problems))
	for _, p := range truncate(problems, 10) {
		fmt.Fprintf(&b, "• %s - %s\n", orUnknown(p.Name), hostNames(p.Hosts))
	}
	if len(problems) > 10 {
		fmt.Fprintf(&b, "\n... and %d more", len(problems)-10)
	}
	return b.String(), nil
}

func handleGetTriggers(ctx context.Context, deps *Deps, args Args) (string, error) {
	limit := args.Int("limit", 50)
	triggers, err := deps.Client.GetTriggers(ctx, map[string]any{"limit": limit})
	if err != nil {
		return "", err
	}
	if len(triggers) == 0 {
		return "No triggers found", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔔 Found %d triggers:\n\n", len(triggers))
	for _, t := range truncate(triggers, 10) {
		status := "🟢 OK"
		if t.Value == "1" {
			status = "🔴 PROBLEM"
		}
		fmt.Fprintf(&b, "%s - %s\n", status, orUnknown(t.Description))
	}
	if len(triggers) > 10 {
		fmt.Fprintf(&b, "... and %d more", len(triggers)-10)
	}
	return b.String(), nil
}

func handleGetEvents(ctx context.Context, deps *Deps, args Args) (string, error) {
	limit := args.Int("limit", 20)
	events, err := deps.Client.GetEvents(ctx, limit, nil)
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return "No events found", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 Recent Events (%d):\n\n", len(events))
	for _, e := range truncate(events, 10) {
		fmt.Fprintf(&b, "⏰ %s - %s\n", formatClock(e.Clock), hostNames(e.Hosts))
	}
	if len(events) > 10 {
		fmt.Fprintf(&b, "... and %d more", len(events)-10)
	}
	return b.String(), nil
}

func handleGetHostDetails(ctx context.Context, deps *Deps, args Args) (string, error) {
	hostname := args.String("hostname")
	host, err := deps.Client.GetHostByName(ctx, hostname)
	if errors.Is(err, zabbix.ErrNotFound) {
		return fmt.Sprintf("Host '%s' not found", hostname), nil
	}
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🖥️ Host Details: %s\n\n", host.Name)
	fmt.Fprintf(&b, "Host ID: %s\n", host.HostID)
	fmt.Fprintf(&b, "Status: %s\n", hostStatus(host.Status))
	if len(host.Interfaces) > 0 {
		fmt.Fprintf(&b, "\nInterfaces (%d):\n", len(host.Interfaces))
		for _, iface := range host.Interfaces {
			fmt.Fprintf(&b, "  - %s (%s)\n", orNA(iface.IP), orUnknown(iface.Type))
		}
	}
	return b.String(), nil
}

func handleGetItems(ctx context.Context, deps *Deps, args Args) (string, error) {
	hostID := ""
	if hostname := args.String("hostname"); hostname != "" {
		host, err := deps.Client.GetHostByName(ctx, hostname)
		if errors.Is(err, zabbix.ErrNotFound) {
			return fmt.Sprintf("Host '%s' not found", hostname), nil
		}
		if err != nil {
			return "", err
		}
		hostID = host.HostID
	}

	items, err := deps.Client.GetItems(ctx, hostID, nil)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "No items found", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Monitored Items: %d\n\n", len(items))
	for _, item := range truncate(items, 15) {
		fmt.Fprintf(&b, "• %s (%s)\n", orUnknown(item.Name), orNA(item.Key))
	}
	if len(items) > 15 {
		fmt.Fprintf(&b, "... and %d more", len(items)-15)
	}
	return b.String(), nil
}

func handleGetHostGroups(ctx context.Context, deps *Deps, args Args) (string, error) {
	groups, err := deps.Client.GetHostGroups(ctx, nil)
	if err != nil {
		return "", err
	}
	if len(groups) == 0 {
		return "No host groups found", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👥 Host Groups: %d\n\n", len(groups))
	for _, g := range groups {
		fmt.Fprintf(&b, "• %s (ID: %s)\n", g.Name, g.GroupID)
	}
	return b.String(), nil
}

func handleGetSystemStatus(ctx context.Context, deps *Deps, args Args) (string, error) {
	hosts, err := deps.Client.GetHosts(ctx, nil)
	if err != nil {
		return "", err
	}
	problems, err := deps.Client.GetProblems(ctx, nil)
	if err != nil {
		return "", err
	}
	triggers, err := deps.Client.GetTriggers(ctx, nil)
	if err != nil {
		return "", err
	}

	inProblem := 0
	for _, t := range triggers {
		if t.Value == "1" {
			inProblem++
		}
	}

	var b strings.Builder
	b.WriteString("📊 Zabbix System Status\n\n")
	fmt.Fprintf(&b, "Total Hosts: %d\n", len(hosts))
	fmt.Fprintf(&b, "Active Problems: %d\n", len(problems))
	fmt.Fprintf(&b, "Total Triggers: %d\n", len(triggers))
	fmt.Fprintf(&b, "Problem Triggers: %d\n", inProblem)
	return b.String(), nil
}

func handleGetTemplates(ctx context.Context, deps *Deps, args Args) (string, error) {
	templates, err := deps.Client.GetTemplates(ctx, nil)
	if err != nil {
		return "", err
	}
	if len(templates) == 0 {
		return "No templates found", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Available Templates: %d\n\n", len(templates))
	for _, t := range truncate(templates, 20) {
		fmt.Fprintf(&b, "• %s (%s)\n", t.Name, t.Host)
	}
	if len(templates) > 20 {
		fmt.Fprintf(&b, "\n... and %d more templates", len(templates)-20)
	}
	return b.String(), nil
}

func handleLinkTemplate(ctx context.Context, deps *Deps, args Args) (string, error) {
	hostname := args.String("hostname")
	templateName := args.String("template_name")
	if err := deps.Client.LinkTemplateByNames(ctx, hostname, templateName); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Successfully linked template '%s' to host '%s'", templateName, hostname), nil
}

func handleCreateUser(ctx context.Context, deps *Deps, args Args) (string, error) {
	userID, err := deps.Users.CreateUser(ctx, users.CreateUserInput{
		Username: args.String("username"),
		Password: args.String("password"),
		Role:     args.String("role"),
		Email:    args.String("email"),
		Name:     args.String("name"),
		Surname:  args.String("surname"),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ User created successfully\nUser ID: %s\nUsername: %s", userID, args.String("username")), nil
}

func handleUpdateUser(ctx context.Context, deps *Deps, args Args) (string, error) {
	changes, err := deps.Users.UpdateUser(ctx, users.UpdateUserInput{
		UserID:          args.String("userid"),
		Password:        args.String("password"),
		CurrentPassword: args.String("current_password"),
		RoleID:          args.String("roleid"),
	})
	if err != nil {
		return "", err
	}
	if len(changes) == 0 {
		return "✅ No changes requested", nil
	}
	return fmt.Sprintf("✅ User updated successfully\nChanges: %s", strings.Join(changes, ", ")), nil
}

func handleGetRoles(ctx context.Context, deps *Deps, args Args) (string, error) {
	roles, err := deps.Users.Roles(ctx)
	if err != nil {
		return "", err
	}
	if len(roles) == 0 {
		return "No roles found", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Available Roles (%d):\n\n", len(roles))
	for _, r := range roles {
		fmt.Fprintf(&b, "• %s (ID: %s) - Type: %s\n", r.Name, r.RoleID, orUnknown(r.Type))
	}
	return b.String(), nil
}

func handleCheckHostInterfaceAvailability(ctx context.Context, deps *Deps, args Args) (string, error) {
	report, err := deps.Users.CheckHostAvailability(ctx, args.String("hostid"))
	if err != nil {
		return "", err
	}

	emoji := map[users.AvailabilityStatus]string{
		users.AvailabilityAvailable:   "✅",
		users.AvailabilityChecking:    "🔄",
		users.AvailabilityUnavailable: "❌",
		users.AvailabilityUnknown:     "❓",
	}[report.Status]

	var b strings.Builder
	fmt.Fprintf(&b, "%s Host Interface Status\n", emoji)
	fmt.Fprintf(&b, "Host: %s\n", orUnknown(report.Host))
	fmt.Fprintf(&b, "Status: %s\n", strings.ToUpper(string(report.Status)))
	if len(report.Interfaces) > 0 {
		b.WriteString("Interfaces:\n")
		for _, iface := range report.Interfaces {
			fmt.Fprintf(&b, "  • %s:%s\n", iface.IP, iface.Port)
		}
	}
	if report.NotFound {
		b.WriteString("Error: Host not found")
	}
	return b.String(), nil
}

func handleCreateHost(ctx context.Context, deps *Deps, args Args) (string, error) {
	spec := zabbix.HostSpec{
		Hostname:    args.String("hostname"),
		DisplayName: args.String("display_name"),
		IP:          args.String("ip_address"),
		Port:        args.String("port"),
		GroupID:     args.String("group_id"),
		TemplateID:  args.String("template_id"),
	}
	creation, err := deps.Client.CreateHost(ctx, spec)
	if err != nil {
		return "", err
	}

	// Partial progress is reported with the obtained ids so operators
	// can clean up by hand; nothing is rolled back.
	switch creation.StepFailed {
	case "interface":
		return fmt.Sprintf("⚠️ Host created (ID: %s) but interface creation failed: %v",
			creation.HostID, creation.StepErr), nil
	case "template":
		return fmt.Sprintf("⚠️ Host created (ID: %s, interface %s) but template linking failed: %v",
			creation.HostID, creation.InterfaceID, creation.StepErr), nil
	}

	port := spec.Port
	if port == "" {
		port = zabbix.DefaultAgentPort
	}
	var b strings.Builder
	b.WriteString("✅ Host Created Successfully!\n\n")
	fmt.Fprintf(&b, "🖥️ Hostname: %s\n", spec.Hostname)
	fmt.Fprintf(&b, "📝 Display: %s\n", spec.DisplayName)
	fmt.Fprintf(&b, "🌐 IP: %s:%s\n", spec.IP, port)
	fmt.Fprintf(&b, "🔗 Host ID: %s\n", creation.HostID)
	fmt.Fprintf(&b, "📋 Interface ID: %s\n", creation.InterfaceID)
	fmt.Fprintf(&b, "📊 Template: Linked (%s)\n", creation.TemplateID)
	b.WriteString("\nNext: Wait 30-60 seconds for agent to start reporting metrics.")
	return b.String(), nil
}

func handleAddHostInterface(ctx context.Context, deps *Deps, args Args) (string, error) {
	hostID := args.String("hostid")
	ip := args.String("ip_address")
	port := args.String("port")
	if port == "" {
		port = zabbix.DefaultAgentPort
	}

	interfaceID, err := deps.Client.CreateHostInterface(ctx, zabbix.InterfaceSpec{
		HostID: hostID,
		IP:     ip,
		Port:   port,
		Type:   args.String("interface_type"),
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("✅ Interface Added!\n\n")
	fmt.Fprintf(&b, "🔗 Interface ID: %s\n", interfaceID)
	fmt.Fprintf(&b, "🌐 IP: %s:%s\n", ip, port)
	fmt.Fprintf(&b, "🖥️ Host ID: %s\n", hostID)
	b.WriteString("\nNext: Wait for Zabbix server to poll the interface (30-60 seconds).")
	return b.String(), nil
}

func truncate[T any](list []T, max int) []T {
	if len(list) > max {
		return list[:max]
	}
	return list
}

func hostNames(hosts []zabbix.Host) string {
	if len(hosts) == 0 {
		return "Unknown"
	}
	names := make([]string, len(hosts))
	for i, h := range hosts {
		names[i] = orUnknown(h.Name)
	}
	return strings.Join(names, ", ")
}

func hostStatus(status string) string {
	if status == "0" {
		return "Enabled"
	}
	return "Disabled"
}

func formatClock(clock string) string {
	seconds, err := strconv.ParseInt(clock, 10, 64)
	if err != nil {
		return "unknown time"
	}
	return time.Unix(seconds, 0).Format("2006-01-02 15:04:05")
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
