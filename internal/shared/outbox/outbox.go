package outbox

// Outbox rows are persisted inside the same DB transaction as the state
// change that produced them; a worker relay reads pending rows and publishes
// them to the message bus. Status values are shared across every service's
// outbox table.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
)
