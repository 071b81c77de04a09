package users

import (
	"context"

	"github.com/zabbixmcp/zabbixmcp/internal/zabbix"
)

// AvailabilityStatus classifies a host's primary interface.
type AvailabilityStatus string

const (
	AvailabilityUnknown     AvailabilityStatus = "unknown"
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityChecking    AvailabilityStatus = "checking"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
)

// availabilityFromCode maps the API's interface availability code.
func availabilityFromCode(code string) AvailabilityStatus {
	switch code {
	case "1":
		return AvailabilityAvailable
	case "2":
		return AvailabilityChecking
	case "3":
		return AvailabilityUnavailable
	default:
		return AvailabilityUnknown
	}
}

// AvailabilityReport describes the reachability of a host's interfaces.
// NotFound is set instead of an error when the host id resolves to
// nothing, so callers always get a classified status.
type AvailabilityReport struct {
	HostID     string
	Host       string
	Status     AvailabilityStatus
	Interfaces []zabbix.Interface
	NotFound   bool
}

// CheckHostAvailability classifies the host's overall status from its
// first-listed (primary) interface.
func (m *Manager) CheckHostAvailability(ctx context.Context, hostID string) (*AvailabilityReport, error) {
	var hosts []zabbix.Host
	err := callInto(ctx, m.client, "host.get", map[string]any{
		"output":           []string{"hostid", "host", "status"},
		"selectInterfaces": []string{"interfaceid", "ip", "port", "available"},
		"hostids":          hostID,
	}, &hosts)
	if err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		return &AvailabilityReport{
			HostID:   hostID,
			Status:   AvailabilityUnknown,
			NotFound: true,
		}, nil
	}

	report := &AvailabilityReport{
		HostID:     hostID,
		Host:       hosts[0].Host,
		Status:     AvailabilityUnknown,
		Interfaces: hosts[0].Interfaces,
	}
	if len(report.Interfaces) > 0 {
		report.Status = availabilityFromCode(report.Interfaces[0].Available)
	}
	return report, nil
}
