package model

// Descriptor is a rendering hint attached to an enum variant. The maps
// below are exhaustive over their enums so a missing entry shows up in
// tests rather than as string concatenation at render time.
type Descriptor struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var StatusMeta = map[TaskStatus]Descriptor{
	StatusTodo:       {Label: "To Do", Color: "#64748b"},
	StatusInProgress: {Label: "In Progress", Color: "#3b82f6"},
	StatusReview:     {Label: "Review", Color: "#f59e0b"},
	StatusDone:       {Label: "Done", Color: "#10b981"},
}

var RoleMeta = map[Role]Descriptor{
	RoleAdmin:          {Label: "Admin", Color: "#9333ea"},
	RoleProjectManager: {Label: "Project Manager", Color: "#2563eb"},
	RoleTeamLead:       {Label: "Team Lead", Color: "#4f46e5"},
	RoleDeveloper:      {Label: "Developer", Color: "#0d9488"},
	RoleTester:         {Label: "Tester", Color: "#d97706"},
}

var PriorityMeta = map[TaskPriority]Descriptor{
	PriorityLow:      {Label: "Low", Color: "#64748b"},
	PriorityMedium:   {Label: "Medium", Color: "#3b82f6"},
	PriorityHigh:     {Label: "High", Color: "#f97316"},
	PriorityCritical: {Label: "Critical", Color: "#dc2626"},
}
