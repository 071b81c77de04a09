package zabbix

import (
	"encoding/json"
	"reflect"
	"strings"
)

// The API returns every scalar as a string, so the record types below
// keep string fields for the keys the bridge reads. Unreferenced remote
// keys are preserved in the Extra bag for forward compatibility.

// Host is a monitored host record.
type Host struct {
	HostID          string      `json:"hostid"`
	Host            string      `json:"host"`
	Name            string      `json:"name"`
	Status          string      `json:"status"`
	Interfaces      []Interface `json:"interfaces,omitempty"`
	ParentTemplates []Template  `json:"parentTemplates,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Interface is a host polling interface. Available uses the API's
// four-way code: 0 unknown, 1 available, 2 checking, 3 unavailable.
type Interface struct {
	InterfaceID string `json:"interfaceid"`
	HostID      string `json:"hostid,omitempty"`
	IP          string `json:"ip"`
	DNS         string `json:"dns,omitempty"`
	Port        string `json:"port"`
	Type        string `json:"type,omitempty"`
	Main        string `json:"main,omitempty"`
	UseIP       string `json:"useip,omitempty"`
	Available   string `json:"available,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Template is a monitoring configuration bundle.
type Template struct {
	TemplateID string `json:"templateid"`
	Host       string `json:"host,omitempty"`
	Name       string `json:"name,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Trigger value "1" means the trigger is in problem state.
type Trigger struct {
	TriggerID   string `json:"triggerid"`
	Description string `json:"description"`
	Value       string `json:"value"`
	Priority    string `json:"priority,omitempty"`
	Hosts       []Host `json:"hosts,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Event is a state-change record. Clock is a Unix timestamp string.
type Event struct {
	EventID string `json:"eventid"`
	Name    string `json:"name,omitempty"`
	Clock   string `json:"clock"`
	Value   string `json:"value,omitempty"`
	Hosts   []Host `json:"hosts,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Problem is an unresolved problem event.
type Problem struct {
	EventID  string `json:"eventid"`
	Name     string `json:"name"`
	Clock    string `json:"clock,omitempty"`
	Severity string `json:"severity,omitempty"`
	Hosts    []Host `json:"hosts,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Item is a monitored metric.
type Item struct {
	ItemID    string `json:"itemid"`
	Name      string `json:"name"`
	Key       string `json:"key_"`
	LastValue string `json:"lastvalue,omitempty"`
	Hosts     []Host `json:"hosts,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// HostGroup is a named collection of hosts.
type HostGroup struct {
	GroupID string `json:"groupid"`
	Name    string `json:"name"`

	Extra map[string]json.RawMessage `json:"-"`
}

// HistoryEntry is one collected value of an item.
type HistoryEntry struct {
	ItemID string `json:"itemid"`
	Clock  string `json:"clock"`
	Value  string `json:"value"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Dashboard is a frontend dashboard record.
type Dashboard struct {
	DashboardID string `json:"dashboardid"`
	Name        string `json:"name"`

	Extra map[string]json.RawMessage `json:"-"`
}

// User is an API user account.
type User struct {
	UserID   string `json:"userid"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Surname  string `json:"surname,omitempty"`
	RoleID   string `json:"roleid,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Role is a permission role.
type Role struct {
	RoleID string `json:"roleid"`
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (h *Host) UnmarshalJSON(b []byte) error {
	type plain Host
	return decodeWithExtras(b, (*plain)(h), &h.Extra)
}

func (i *Interface) UnmarshalJSON(b []byte) error {
	type plain Interface
	return decodeWithExtras(b, (*plain)(i), &i.Extra)
}

func (t *Template) UnmarshalJSON(b []byte) error {
	type plain Template
	return decodeWithExtras(b, (*plain)(t), &t.Extra)
}

func (t *Trigger) UnmarshalJSON(b []byte) error {
	type plain Trigger
	return decodeWithExtras(b, (*plain)(t), &t.Extra)
}

func (e *Event) UnmarshalJSON(b []byte) error {
	type plain Event
	return decodeWithExtras(b, (*plain)(e), &e.Extra)
}

func (p *Problem) UnmarshalJSON(b []byte) error {
	type plain Problem
	return decodeWithExtras(b, (*plain)(p), &p.Extra)
}

func (i *Item) UnmarshalJSON(b []byte) error {
	type plain Item
	return decodeWithExtras(b, (*plain)(i), &i.Extra)
}

func (g *HostGroup) UnmarshalJSON(b []byte) error {
	type plain HostGroup
	return decodeWithExtras(b, (*plain)(g), &g.Extra)
}

func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	return decodeWithExtras(b, (*plain)(u), &u.Extra)
}

func (r *Role) UnmarshalJSON(b []byte) error {
	type plain Role
	return decodeWithExtras(b, (*plain)(r), &r.Extra)
}

// decodeWithExtras unmarshals b into dst and collects remote keys that
// do not map to any json-tagged field into extra.
func decodeWithExtras(b []byte, dst any, extra *map[string]json.RawMessage) error {
	if err := json.Unmarshal(b, dst); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}

	t := reflect.TypeOf(dst).Elem()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		if idx := strings.IndexByte(tag, ','); idx >= 0 {
			tag = tag[:idx]
		}
		delete(all, tag)
	}

	if len(all) > 0 {
		*extra = all
	}
	return nil
}
