package commands

import (
	"encoding/json"
	"time"

	"agora/contexts/governance/decision-service/ports"
)

func newGovernanceEnvelope(
	eventID string,
	eventType string,
	instanceID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Command-side events are partitioned by instance for stable ordering on
	// instance-scoped consumers.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "decision-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "instance_id",
		PartitionKey:     instanceID,
		Data:             payload,
	}, nil
}
