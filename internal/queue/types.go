package queue

import (
	"fmt"
	"time"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeReconcile runs one fetch/diff/persist/notify cycle
	JobTypeReconcile JobType = "sdn_reconcile"
	// JobTypeLookup answers one /check_sdn slash command
	JobTypeLookup JobType = "sdn_lookup"
)

// Job represents a queued job
type Job struct {
	ID        string
	Type      JobType
	Payload   map[string]interface{}
	CreatedAt time.Time
	Source    string // who enqueued it: cron, api, slack, cli
}

// PayloadString returns a string payload value, or "" when absent
func (j *Job) PayloadString(key string) string {
	if j.Payload == nil {
		return ""
	}
	v, ok := j.Payload[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// GetJobDescription returns a human-readable description for a job type
func GetJobDescription(jobType JobType) string {
	descriptions := map[JobType]string{
		JobTypeReconcile: "Reconciling the SDN list",
		JobTypeLookup:    "Looking up a name in the SDN list",
	}

	if desc, exists := descriptions[jobType]; exists {
		return desc
	}

	// Fallback to job type string
	return string(jobType)
}
