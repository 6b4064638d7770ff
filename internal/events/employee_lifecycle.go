package events

import "time"

const EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"

const (
	EmployeeCreatedType = "employee_created"
	EmployeeDeletedType = "employee_deleted"
)

// EmployeeLifecycleEvent is published after the upstream accepted a write.
type EmployeeLifecycleEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	OccurredAt   time.Time `json:"occurred_at"`
}
